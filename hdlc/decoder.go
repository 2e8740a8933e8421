package hdlc

type decodeState int

const (
	stateHunt   decodeState = iota // waiting for an opening flag
	stateFrame                     // collecting body bytes
	stateEscape                    // previous byte was Escape
)

// Decoder rebuilds frame bodies from a byte stream, one byte at a time.
// Unless SharedFlags is set, a closing flag is not reused as the next opening
// flag so that line noise between frames never turns into a frame.
type Decoder struct {
	state       decodeState
	body        []byte
	SharedFlags bool // A closing flag also opens the next frame
	Discarded   int  // Bytes seen outside of any frame
	Dropped     int  // Frames aborted or longer than MaxFrameLen
}

// Feed consumes one byte and returns a copy of the frame body when b completes a frame.
func (d *Decoder) Feed(b byte) ([]byte, bool) {
	switch d.state {
	case stateHunt:
		if b == Flag {
			d.state, d.body = stateFrame, d.body[:0]
			return nil, false
		}
		d.Discarded++
	case stateFrame:
		switch b {
		case Flag:
			if len(d.body) == 0 {
				return nil, false // Back-to-back flags
			}
			body := make([]byte, len(d.body))
			copy(body, d.body)
			d.Reset()
			if d.SharedFlags {
				d.state = stateFrame
			}
			return body, true
		case Escape:
			d.state = stateEscape
		default:
			d.push(b)
		}
	case stateEscape:
		if b == Flag {
			// 7D 7E aborts the frame, the flag opens a new one.
			d.Dropped++
			d.state, d.body = stateFrame, d.body[:0]
			return nil, false
		}
		d.state = stateFrame
		d.push(b ^ EscapeXOR)
	}

	return nil, false
}

// InFrame reports whether a frame body is being received.
func (d *Decoder) InFrame() bool {
	return d.state == stateEscape || (d.state == stateFrame && len(d.body) > 0)
}

// Reset abandons any partial frame and hunts for the next opening flag.
func (d *Decoder) Reset() {
	d.state, d.body = stateHunt, d.body[:0]
}

func (d *Decoder) push(b byte) {
	if len(d.body) >= MaxFrameLen {
		d.Dropped++
		d.Reset()
		return
	}
	d.body = append(d.body, b)
}
