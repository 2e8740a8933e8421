package bedlink

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mdouchement/bedlink/hdlc"
	"github.com/mdouchement/logger"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	return logger.WithLogger(context.Background(), NewLogger(io.Discard, true))
}

func testReadConfig() hdlc.ReadConfig {
	return hdlc.ReadConfig{
		BaudRate:         38400,
		Timeout:          100 * time.Millisecond,
		InterbyteTimeout: 20 * time.Millisecond,
		CRCMode:          hdlc.CRCNone,
		RemoveCRC:        true,
	}
}

type step struct {
	frame []byte
	err   error
	delay time.Duration
}

// scriptedReader plays steps in order, then times out after idle on every call.
type scriptedReader struct {
	sync  sync.Mutex
	steps []step
	idle  time.Duration
	calls int
}

func (r *scriptedReader) ReadFrame(ctx context.Context, _ hdlc.Link, _ hdlc.ReadConfig) (hdlc.Frame, error) {
	r.sync.Lock()
	i := r.calls
	r.calls++
	r.sync.Unlock()

	if i >= len(r.steps) {
		time.Sleep(r.idle)
		return hdlc.Frame{}, hdlc.ErrFrameTimeout
	}

	s := r.steps[i]
	time.Sleep(s.delay)
	if s.err != nil {
		return hdlc.Frame{}, s.err
	}
	return hdlc.Frame{Bytes: s.frame, Status: hdlc.StatusUnchecked}, nil
}

func (r *scriptedReader) Calls() int {
	r.sync.Lock()
	defer r.sync.Unlock()

	return r.calls
}

// transcript is a Printer keeping its output lines.
type transcript struct {
	buf bytes.Buffer
	*Printer
}

func newTranscript() *transcript {
	t := &transcript{}
	t.Printer = NewPrinter(&t.buf)
	return t
}

func (t *transcript) Lines() []string {
	s := strings.TrimRight(t.buf.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
