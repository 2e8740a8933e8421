package hdlc

const (
	Flag        byte = 0x7E // Frame delimiter
	Escape      byte = 0x7D // Control escape, next byte is XORed with EscapeXOR
	EscapeXOR   byte = 0x20
	FCSLen           = 2    // CRC-16 trailer length
	MaxFrameLen      = 4096 // Bodies longer than this are dropped
	ReadChunk        = 256
)

const (
	CRCNone   CRCMode = "none"   // Frames carry a FCS which is not checked
	CRCX25    CRCMode = "x25"    // Frames carry a CRC-16/X.25 FCS which is checked
	CRCAbsent CRCMode = "absent" // Frames carry no FCS
)

const (
	StatusUnchecked Status = iota
	StatusValid
	StatusInvalid
	StatusAbsent
)
