package bedlink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mdouchement/bedlink/hdlc"
	"github.com/mdouchement/logger"
)

var ErrNoObserver = errors.New("session: no observer")

// A Session listens to a unit then queries it, on one link opened for the whole run.
type Session struct {
	Port                string
	Config              hdlc.ReadConfig
	InitialListen       time.Duration
	Requests            [][]byte
	ResponsesPerRequest int
	PostWriteDelay      time.Duration

	Opener   Opener      // LinkOpener when nil
	Reader   FrameReader // A fresh hdlc.Reader when nil
	Observer Observer
}

// Run opens the link, runs the listen phase then the query phase and always closes the link.
// Phases never overlap: the first request is written once the listen window is over.
func (s *Session) Run(ctx context.Context) (err error) {
	log := logger.LogWith(ctx)

	if s.Observer == nil {
		return ErrNoObserver
	}
	if err = s.Config.Validate(); err != nil {
		return err
	}
	if s.ResponsesPerRequest < 0 {
		return fmt.Errorf("%w: negative responses per request", ErrInvalidConfig)
	}

	opener := s.Opener
	if opener == nil {
		opener = LinkOpener
	}

	reader := s.Reader
	if reader == nil {
		r := hdlc.NewReader()
		r.SetLogger(log)
		reader = r
	}

	//

	s.Observer.Opening(s.Port, s.Config)

	link, err := opener.Open(s.Port, s.Config)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer func() {
		cerr := link.Close()
		if cerr == nil {
			return
		}
		if err == nil {
			err = fmt.Errorf("close: %w", cerr)
			return
		}
		log.WithError(cerr).Warn("[session] Could not close link")
	}()

	log.Debugf("[session] listening for %s", s.InitialListen)
	if _, err = Listen(ctx, link, reader, s.Config, s.InitialListen, s.Observer); err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	log.Debugf("[session] %d requests, %d responses each", len(s.Requests), s.ResponsesPerRequest)
	if err = Query(ctx, link, reader, s.Config, s.Requests, s.ResponsesPerRequest, s.PostWriteDelay, s.Observer); err != nil {
		return fmt.Errorf("query: %w", err)
	}

	return nil
}

// NewSession builds a session from a loaded configuration.
func NewSession(cfg Config, port string, obs Observer) (*Session, error) {
	rc, err := cfg.ReadConfig()
	if err != nil {
		return nil, err
	}

	requests, err := ParseRequests(cfg.Requests)
	if err != nil {
		return nil, err
	}

	return &Session{
		Port:                port,
		Config:              rc,
		InitialListen:       cfg.InitialListen.Duration,
		Requests:            requests,
		ResponsesPerRequest: cfg.ResponsesPerRequest,
		PostWriteDelay:      cfg.PostWriteDelay.Duration,
		Observer:            obs,
	}, nil
}
