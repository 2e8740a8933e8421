package bedlink

import (
	"context"
	"errors"
	"time"

	"github.com/mdouchement/bedlink/hdlc"
	"github.com/mdouchement/logger"
)

// Listen reports every frame the device streams on its own during window.
// Read timeouts are expected and absorbed until the window is over, so Listen returns
// at most one reader call after the deadline. It returns the number of observed frames.
func Listen(ctx context.Context, link hdlc.Link, reader FrameReader, cfg hdlc.ReadConfig, window time.Duration, obs Observer) (int, error) {
	return listen(ctx, link, reader, cfg, time.Now().Add(window), obs)
}

// Watch is Listen without a deadline, it runs until ctx is done.
func Watch(ctx context.Context, link hdlc.Link, reader FrameReader, cfg hdlc.ReadConfig, obs Observer) error {
	_, err := listen(ctx, link, reader, cfg, time.Time{}, obs)
	return err
}

func listen(ctx context.Context, link hdlc.Link, reader FrameReader, cfg hdlc.ReadConfig, deadline time.Time, obs Observer) (int, error) {
	log := logger.LogWith(ctx)

	var observed, timeouts int
	for deadline.IsZero() || time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return observed, err
		}

		f, err := reader.ReadFrame(ctx, link, cfg)
		if errors.Is(err, hdlc.ErrFrameTimeout) {
			timeouts++
			continue
		}
		if err != nil {
			return observed, err
		}

		observed++
		log.Debugf("[listen] frame %d: %s", observed, f.Status)
		obs.Observed(observed, f)
	}

	log.Debugf("[listen] window over: %d frames, %d read timeouts", observed, timeouts)
	if observed == 0 {
		obs.NothingObserved()
	}

	return observed, nil
}
