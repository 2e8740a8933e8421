package hdlc

import (
	"context"
	"errors"
	"time"

	"github.com/mdouchement/logger"
)

// ErrFrameTimeout is returned when no complete frame arrived within the read timeout.
// It is expected and recoverable.
var ErrFrameTimeout = errors.New("frame timeout")

// A Reader extracts frames from a Link. Bytes read past the end of a frame
// are kept for the next call, so a Reader must only be used with a single link.
type Reader struct {
	dec       Decoder
	pending   []byte
	chunk     []byte
	log       logger.Logger
	discarded int // Last logged Decoder.Discarded
}

func NewReader() *Reader {
	return &Reader{
		chunk: make([]byte, ReadChunk),
	}
}

func (r *Reader) SetLogger(l logger.Logger) {
	r.log = l
}

// ReadFrame blocks until one frame is decoded from link, cfg.Timeout elapses (ErrFrameTimeout)
// or ctx is canceled. A frame whose bytes are more than cfg.InterbyteTimeout apart is abandoned.
// At least one read is attempted, a zero cfg.Timeout polls the link once.
func (r *Reader) ReadFrame(ctx context.Context, link Link, cfg ReadConfig) (Frame, error) {
	deadline := time.Now().Add(cfg.Timeout)
	r.dec.SharedFlags = cfg.SharedFlags

	for attempt := 0; ; attempt++ {
		for len(r.pending) > 0 {
			b := r.pending[0]
			r.pending = r.pending[1:]

			if body, ok := r.dec.Feed(b); ok {
				f := cfg.build(body)
				r.logDiscarded()
				if r.log != nil {
					r.log.Debugf("[hdlc] frame of %d bytes (%s)", len(f.Bytes), f.Status)
				}
				return f, nil
			}
		}

		if err := ctx.Err(); err != nil {
			return Frame{}, err
		}

		remaining := time.Until(deadline)
		if remaining <= 0 && attempt > 0 {
			r.logDiscarded()
			if r.dec.InFrame() {
				if r.log != nil {
					r.log.Debug("[hdlc] timeout in the middle of a frame")
				}
				r.dec.Reset()
			}
			return Frame{}, ErrFrameTimeout
		}
		remaining = max(remaining, 0)

		wait := remaining
		gapped := r.dec.InFrame() && cfg.InterbyteTimeout > 0 && cfg.InterbyteTimeout < remaining
		if gapped {
			wait = cfg.InterbyteTimeout
		}

		if err := link.SetReadTimeout(wait); err != nil {
			return Frame{}, err
		}

		n, err := link.Read(r.chunk)
		if err != nil {
			r.dec.Reset()
			return Frame{}, err
		}

		if n == 0 {
			if gapped {
				if r.log != nil {
					r.log.Debugf("[hdlc] interbyte gap over %s, frame abandoned", cfg.InterbyteTimeout)
				}
				r.dec.Dropped++
				r.dec.Reset()
			}
			continue
		}

		r.pending = append(r.pending, r.chunk[:n]...)
	}
}

func (r *Reader) logDiscarded() {
	if n := r.dec.Discarded - r.discarded; n > 0 && r.log != nil {
		r.log.Debugf("[hdlc] %d bytes discarded outside frames", n)
	}
	r.discarded = r.dec.Discarded
}

// Stats returns the number of bytes discarded outside frames and the number of dropped frames.
func (r *Reader) Stats() (discarded, dropped int) {
	return r.dec.Discarded, r.dec.Dropped
}
