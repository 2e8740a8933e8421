package hdlc

import (
	"context"
	"io"
	"sync"
	"time"
)

// A DummyLink should only be used for dev & tests.
// Bytes given to Feed become readable, Reply is called on each Write
// and what it returns is fed back as the device answer.
type DummyLink struct {
	sync    sync.Mutex
	rx      []byte
	wake    chan struct{}
	timeout time.Duration
	closed  bool
	closes  int
	writes  [][]byte
	flushes int

	Reply func(request []byte) []byte
}

func NewDummyLink() *DummyLink {
	return &DummyLink{
		wake:    make(chan struct{}, 1),
		timeout: -1,
	}
}

// Feed makes p readable from the link.
func (l *DummyLink) Feed(p []byte) {
	l.sync.Lock()
	l.rx = append(l.rx, p...)
	l.sync.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Stream feeds frame(i) every interval until ctx is done.
func (l *DummyLink) Stream(ctx context.Context, interval time.Duration, frame func(i int) []byte) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for i := 1; ; i++ {
			select {
			case <-ticker.C:
				l.Feed(frame(i))
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (l *DummyLink) Read(p []byte) (int, error) {
	l.sync.Lock()
	timeout := l.timeout
	l.sync.Unlock()

	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	for {
		l.sync.Lock()
		if l.closed {
			l.sync.Unlock()
			return 0, &LinkError{Op: "read", Port: "dummy", Err: io.ErrClosedPipe}
		}
		if len(l.rx) > 0 {
			n := copy(p, l.rx)
			l.rx = l.rx[n:]
			l.sync.Unlock()
			return n, nil
		}
		l.sync.Unlock()

		if timeout == 0 {
			return 0, nil
		}

		select {
		case <-l.wake:
		case <-expired:
			return 0, nil
		}
	}
}

func (l *DummyLink) Write(p []byte) (int, error) {
	l.sync.Lock()
	if l.closed {
		l.sync.Unlock()
		return 0, &LinkError{Op: "write", Port: "dummy", Err: io.ErrClosedPipe}
	}
	request := make([]byte, len(p))
	copy(request, p)
	l.writes = append(l.writes, request)
	reply := l.Reply
	l.sync.Unlock()

	if reply != nil {
		if response := reply(request); len(response) > 0 {
			l.Feed(response)
		}
	}

	return len(p), nil
}

func (l *DummyLink) Flush() error {
	l.sync.Lock()
	defer l.sync.Unlock()

	l.flushes++
	return nil
}

func (l *DummyLink) SetReadTimeout(t time.Duration) error {
	l.sync.Lock()
	defer l.sync.Unlock()

	l.timeout = t
	return nil
}

func (l *DummyLink) Close() error {
	l.sync.Lock()
	l.closes++
	l.closed = true
	l.sync.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Closes returns how many times Close was called.
func (l *DummyLink) Closes() int {
	l.sync.Lock()
	defer l.sync.Unlock()

	return l.closes
}

// Writes returns every written buffer, in order.
func (l *DummyLink) Writes() [][]byte {
	l.sync.Lock()
	defer l.sync.Unlock()

	return append([][]byte(nil), l.writes...)
}

// Flushes returns how many times Flush was called.
func (l *DummyLink) Flushes() int {
	l.sync.Lock()
	defer l.sync.Unlock()

	return l.flushes
}
