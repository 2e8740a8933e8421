package bedlink

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/mdouchement/bedlink/hdlc"
)

const (
	KindOpening         = "opening"
	KindObserved        = "observed"
	KindNothingObserved = "nothing-observed"
	KindSent            = "sent"
	KindResponse        = "response"
	KindNoRequests      = "no-requests"
)

// A Capture is everything observed during a session, as stored by a Recorder.
type Capture struct {
	Port             string        `json:"port" cbor:"1,keyasint,omitempty"`
	BaudRate         int           `json:"baudrate" cbor:"2,keyasint,omitempty"`
	Timeout          time.Duration `json:"timeout" cbor:"3,keyasint,omitempty"`
	InterbyteTimeout time.Duration `json:"interbyte_timeout" cbor:"4,keyasint,omitempty"`
	StartedAt        time.Time     `json:"started_at" cbor:"5,keyasint"`
	Records          []Record      `json:"records" cbor:"6,keyasint,omitempty"`
}

type Record struct {
	Kind    string        `json:"kind" cbor:"1,keyasint"`
	Offset  time.Duration `json:"offset" cbor:"2,keyasint,omitempty"` // Since Capture.StartedAt
	Request int           `json:"request,omitempty" cbor:"3,keyasint,omitempty"`
	Index   int           `json:"index,omitempty" cbor:"4,keyasint,omitempty"`
	Bytes   []byte        `json:"bytes,omitempty" cbor:"5,keyasint,omitempty"`
	Status  hdlc.Status   `json:"status" cbor:"6,keyasint,omitempty"`
}

// Recorder is an Observer keeping a Capture of the session.
type Recorder struct {
	sync    sync.Mutex
	capture Capture
	now     func() time.Time
}

func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

func (r *Recorder) Opening(port string, cfg hdlc.ReadConfig) {
	r.sync.Lock()
	defer r.sync.Unlock()

	r.capture.Port = port
	r.capture.BaudRate = cfg.BaudRate
	r.capture.Timeout = cfg.Timeout
	r.capture.InterbyteTimeout = cfg.InterbyteTimeout
	r.capture.StartedAt = r.now()
	r.capture.Records = append(r.capture.Records, Record{Kind: KindOpening})
}

func (r *Recorder) Observed(n int, f hdlc.Frame) {
	r.append(Record{Kind: KindObserved, Index: n, Bytes: f.Bytes, Status: f.Status})
}

func (r *Recorder) NothingObserved() {
	r.append(Record{Kind: KindNothingObserved})
}

func (r *Recorder) Sent(request int, data []byte) {
	r.append(Record{Kind: KindSent, Request: request, Bytes: data})
}

func (r *Recorder) Response(request, n int, f hdlc.Frame) {
	r.append(Record{Kind: KindResponse, Request: request, Index: n, Bytes: f.Bytes, Status: f.Status})
}

func (r *Recorder) NoRequests() {
	r.append(Record{Kind: KindNoRequests})
}

func (r *Recorder) append(rec Record) {
	r.sync.Lock()
	defer r.sync.Unlock()

	if r.capture.StartedAt.IsZero() {
		r.capture.StartedAt = r.now()
	}
	rec.Offset = r.now().Sub(r.capture.StartedAt)
	rec.Bytes = append([]byte(nil), rec.Bytes...)
	r.capture.Records = append(r.capture.Records, rec)
}

// Capture returns a copy of what has been recorded so far.
func (r *Recorder) Capture() Capture {
	r.sync.Lock()
	defer r.sync.Unlock()

	c := r.capture
	c.Records = append([]Record(nil), r.capture.Records...)
	return c
}

// Save writes the capture to path.
func (r *Recorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	err = WriteCapture(f, r.Capture())
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Replay emits the recorded events to obs, in their original order.
func (c Capture) Replay(obs Observer) {
	for _, rec := range c.Records {
		f := hdlc.Frame{Bytes: rec.Bytes, Status: rec.Status}

		switch rec.Kind {
		case KindOpening:
			obs.Opening(c.Port, hdlc.ReadConfig{BaudRate: c.BaudRate, Timeout: c.Timeout, InterbyteTimeout: c.InterbyteTimeout})
		case KindObserved:
			obs.Observed(rec.Index, f)
		case KindNothingObserved:
			obs.NothingObserved()
		case KindSent:
			obs.Sent(rec.Request, rec.Bytes)
		case KindResponse:
			obs.Response(rec.Request, rec.Index, f)
		case KindNoRequests:
			obs.NoRequests()
		}
	}
}

var captureEncoding = func() cbor.EncMode {
	em, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		panic(err) // Static options
	}
	return em
}()

func WriteCapture(w io.Writer, c Capture) error {
	if err := captureEncoding.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	return nil
}

func ReadCapture(r io.Reader) (Capture, error) {
	var c Capture
	if err := cbor.NewDecoder(r).Decode(&c); err != nil {
		return c, fmt.Errorf("capture: %w", err)
	}
	return c, nil
}

func LoadCapture(path string) (Capture, error) {
	f, err := os.Open(path)
	if err != nil {
		return Capture{}, err
	}
	defer f.Close()

	return ReadCapture(f)
}
