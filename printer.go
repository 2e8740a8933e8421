package bedlink

import (
	"fmt"
	"io"

	"github.com/mdouchement/bedlink/hdlc"
	"github.com/mdouchement/bedlink/hexbyte"
)

// Printer writes the human readable session transcript.
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Opening(port string, cfg hdlc.ReadConfig) {
	fmt.Fprintf(p.w, "Opening %s at %d baud (timeout=%ss, interbyte=%ss)\n",
		port, cfg.BaudRate, FormatSeconds(cfg.Timeout), FormatSeconds(cfg.InterbyteTimeout))
}

func (p *Printer) Observed(n int, f hdlc.Frame) {
	fmt.Fprintf(p.w, "Okamzite frame %d: %s\n", n, hexbyte.Format(f.Bytes))
}

func (p *Printer) NothingObserved() {
	fmt.Fprintln(p.w, "No Okamzite hodnoty frames captured within the initial window.")
}

func (p *Printer) Sent(request int, data []byte) {
	fmt.Fprintf(p.w, "Sent request %d: %s\n", request, hexbyte.Format(data))
}

func (p *Printer) Response(request, n int, f hdlc.Frame) {
	fmt.Fprintf(p.w, "Response to request %d: %d: %s\n", request, n, hexbyte.Format(f.Bytes))
}

func (p *Printer) NoRequests() {
	fmt.Fprintln(p.w, "No additional requests provided; exiting after initial capture.")
}
