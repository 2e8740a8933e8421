package hdlc

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidConfig = errors.New("invalid read configuration")

type (
	CRCMode string
	Status  uint8
)

func ParseCRCMode(s string) (CRCMode, error) {
	switch m := CRCMode(strings.ToLower(strings.TrimSpace(s))); m {
	case CRCNone, CRCX25, CRCAbsent:
		return m, nil
	case "":
		return CRCNone, nil
	case "fcs16", "crc16":
		return CRCX25, nil
	default:
		return "", fmt.Errorf("%w: unknown crc mode %q", ErrInvalidConfig, s)
	}
}

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "crc-valid"
	case StatusInvalid:
		return "crc-invalid"
	case StatusAbsent:
		return "crc-absent"
	default:
		return "crc-unchecked"
	}
}

// ReadConfig drives both the link setup and the frame reader.
// It is passed by value and never mutated once built.
type ReadConfig struct {
	BaudRate         int
	Timeout          time.Duration // Overall ceiling of one frame read
	InterbyteTimeout time.Duration // Max gap between two bytes of an in-progress frame
	CRCMode          CRCMode
	RemoveCRC        bool
	SharedFlags      bool // The closing flag of a frame is the opening flag of the next one
}

func (c ReadConfig) Validate() error {
	if c.BaudRate <= 0 {
		return fmt.Errorf("%w: baudrate must be positive, got %d", ErrInvalidConfig, c.BaudRate)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout %s", ErrInvalidConfig, c.Timeout)
	}
	if c.InterbyteTimeout < 0 {
		return fmt.Errorf("%w: negative interbyte timeout %s", ErrInvalidConfig, c.InterbyteTimeout)
	}
	if _, err := ParseCRCMode(string(c.CRCMode)); err != nil {
		return err
	}

	return nil
}

// Frame is one decoded frame. Bytes starts and ends with Flag,
// escaping is already removed.
type Frame struct {
	Bytes  []byte
	Status Status
}

// Payload returns the frame content without its delimiting flags.
func (f Frame) Payload() []byte {
	if len(f.Bytes) < 2 {
		return nil
	}
	return f.Bytes[1 : len(f.Bytes)-1]
}

// build turns a decoded body into a Frame according to the CRC settings.
func (c ReadConfig) build(body []byte) Frame {
	status := StatusUnchecked

	switch c.CRCMode {
	case CRCAbsent:
		status = StatusAbsent
	case CRCX25:
		status = StatusInvalid
		if n := len(body); n > FCSLen {
			want := uint16(body[n-2]) | uint16(body[n-1])<<8
			if FCS16(body[:n-FCSLen]) == want {
				status = StatusValid
			}
		}
	}

	if c.RemoveCRC && c.CRCMode != CRCAbsent && len(body) >= FCSLen {
		body = body[:len(body)-FCSLen]
	}

	b := make([]byte, 0, len(body)+2)
	b = append(b, Flag)
	b = append(b, body...)
	b = append(b, Flag)

	return Frame{Bytes: b, Status: status}
}
