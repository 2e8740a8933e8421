package hdlc

// FCS16 computes the CRC-16/X.25 frame check sequence of data
// (poly 0x1021 reflected, init 0xFFFF, final XOR 0xFFFF).
// It is transmitted least significant byte first.
func FCS16(data []byte) uint16 {
	fcs := uint16(0xFFFF)
	for _, b := range data {
		fcs ^= uint16(b)
		for range 8 {
			if fcs&1 != 0 {
				fcs = fcs>>1 ^ 0x8408
			} else {
				fcs >>= 1
			}
		}
	}

	return ^fcs
}
