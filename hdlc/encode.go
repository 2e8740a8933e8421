package hdlc

// Encode wraps payload into a wire frame: opening flag, escaped payload
// (followed by its FCS when mode is CRCX25) and closing flag.
func Encode(payload []byte, mode CRCMode) []byte {
	body := payload
	if mode == CRCX25 {
		fcs := FCS16(payload)
		body = append(append([]byte{}, payload...), byte(fcs), byte(fcs>>8))
	}

	b := make([]byte, 0, len(body)+len(body)/8+2)
	b = append(b, Flag)
	for _, c := range body {
		if c == Flag || c == Escape {
			b = append(b, Escape, c^EscapeXOR)
			continue
		}
		b = append(b, c)
	}

	return append(b, Flag)
}
