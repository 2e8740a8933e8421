package bedlink

import (
	"context"

	"github.com/mdouchement/bedlink/hdlc"
)

// A FrameReader blocks until one frame is decoded from link.
// It returns an error matching hdlc.ErrFrameTimeout when none arrived within cfg.Timeout.
type FrameReader interface {
	ReadFrame(ctx context.Context, link hdlc.Link, cfg hdlc.ReadConfig) (hdlc.Frame, error)
}

type Opener interface {
	Open(port string, cfg hdlc.ReadConfig) (hdlc.Link, error)
}

type OpenerFunc func(port string, cfg hdlc.ReadConfig) (hdlc.Link, error)

func (f OpenerFunc) Open(port string, cfg hdlc.ReadConfig) (hdlc.Link, error) {
	return f(port, cfg)
}

// LinkOpener opens serial devices and tcp:// bridges.
var LinkOpener Opener = OpenerFunc(hdlc.Open)

// An Observer is notified of everything a session does, in order.
// Indexes are 1-based.
type Observer interface {
	Opening(port string, cfg hdlc.ReadConfig)
	Observed(n int, f hdlc.Frame)
	NothingObserved()
	Sent(request int, data []byte)
	Response(request, n int, f hdlc.Frame)
	NoRequests()
}

// Observers fans events out to several observers.
type Observers []Observer

func (o Observers) Opening(port string, cfg hdlc.ReadConfig) {
	for _, obs := range o {
		obs.Opening(port, cfg)
	}
}

func (o Observers) Observed(n int, f hdlc.Frame) {
	for _, obs := range o {
		obs.Observed(n, f)
	}
}

func (o Observers) NothingObserved() {
	for _, obs := range o {
		obs.NothingObserved()
	}
}

func (o Observers) Sent(request int, data []byte) {
	for _, obs := range o {
		obs.Sent(request, data)
	}
}

func (o Observers) Response(request, n int, f hdlc.Frame) {
	for _, obs := range o {
		obs.Response(request, n, f)
	}
}

func (o Observers) NoRequests() {
	for _, obs := range o {
		obs.NoRequests()
	}
}

func ToPtr[T any](v T) *T {
	return &v
}
