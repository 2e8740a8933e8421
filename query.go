package bedlink

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mdouchement/bedlink/hdlc"
	"github.com/mdouchement/logger"
)

// Query writes each request, waits settle and then reads exactly responses frames.
// Unlike Listen, a read timeout is a failure: it aborts the remaining requests.
func Query(ctx context.Context, link hdlc.Link, reader FrameReader, cfg hdlc.ReadConfig, requests [][]byte, responses int, settle time.Duration, obs Observer) error {
	log := logger.LogWith(ctx)

	if len(requests) == 0 {
		obs.NoRequests()
		return nil
	}

	for i, request := range requests {
		idx := i + 1

		if err := ctx.Err(); err != nil {
			return err
		}

		if err := send(link, request); err != nil {
			return fmt.Errorf("request %d: %w", idx, err)
		}
		obs.Sent(idx, request)

		if err := sleep(ctx, settle); err != nil {
			return err
		}

		for n := 1; n <= responses; n++ {
			f, err := reader.ReadFrame(ctx, link, cfg)
			if err != nil {
				return fmt.Errorf("request %d: response %d: %w", idx, n, err)
			}

			log.Debugf("[query] request %d response %d: %s", idx, n, f.Status)
			obs.Response(idx, n, f)
		}
	}

	return nil
}

func send(link hdlc.Link, request []byte) error {
	n, err := link.Write(request)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if n != len(request) {
		return fmt.Errorf("write: %d of %d bytes: %w", n, len(request), io.ErrShortWrite)
	}

	if err = link.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	return nil
}
