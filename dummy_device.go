package bedlink

import (
	"bytes"
	"context"
	"time"

	"github.com/mdouchement/bedlink/hdlc"
)

// DummyPort is the port name reported by NewDummyOpener links.
const DummyPort = "x-testing"

// NewDummyOpener returns an Opener whose links behave like a unit: one
// Okamzite frame every interval and one answer per request.
// It should only be used for dev & tests. Streaming stops with ctx.
func NewDummyOpener(ctx context.Context, interval time.Duration) Opener {
	return OpenerFunc(func(_ string, _ hdlc.ReadConfig) (hdlc.Link, error) {
		link := hdlc.NewDummyLink()
		link.Reply = DummyReply
		link.Stream(ctx, interval, DummyFrame)
		return link, nil
	})
}

// DummyFrame is the i-th streamed frame, FCS included.
func DummyFrame(i int) []byte {
	return hdlc.Encode([]byte{0x14, 0x17, 0x00, byte(i)}, hdlc.CRCX25)
}

// DummyReply acknowledges request by echoing its content after an 0x06 byte.
func DummyReply(request []byte) []byte {
	payload := bytes.Trim(request, string([]byte{hdlc.Flag}))
	return hdlc.Encode(append([]byte{0x06}, payload...), hdlc.CRCX25)
}
