package dump

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/mdouchement/bedlink"
	"github.com/mdouchement/bedlink/hdlc"
	"github.com/mdouchement/bedlink/hexbyte"
	"github.com/spf13/cobra"
)

func Command() *cobra.Command {
	var cpath string
	var baudrate int
	var timeout float64
	var duration float64
	var chunk int

	cmd := &cobra.Command{
		Use:   "dump [port]",
		Short: "Print the raw bytes received on a port as hex",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bedlink.LoadOrDefault(cpath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("baudrate") {
				cfg.BaudRate = baudrate
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Timeout.Duration = bedlink.Seconds(timeout)
			}
			if chunk <= 0 {
				return fmt.Errorf("chunk size must be positive, got %d", chunk)
			}

			var arg string
			if len(args) > 0 {
				arg = args[0]
			}
			port, err := bedlink.ResolvePort(arg, cfg)
			if err != nil {
				return err
			}

			rc, err := cfg.ReadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, bedlink.Seconds(duration))
				defer cancel()
			}

			link, err := hdlc.Open(port, rc)
			if err != nil {
				return err
			}
			defer link.Close()

			fmt.Fprintf(cmd.ErrOrStderr(), "Opened %s at %d baud; waiting for data...\n", port, rc.BaudRate)
			out := cmd.OutOrStdout()
			err = Dump(ctx, link, rc.Timeout, chunk, func(p []byte) {
				fmt.Fprintln(out, hexbyte.FormatCompact(p))
			})
			if errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&cpath, "config", "c", "", "Configfile path (YAML or TOML)")
	cmd.Flags().IntVarP(&baudrate, "baudrate", "", bedlink.DefaultConfig().BaudRate, "Serial baudrate")
	cmd.Flags().Float64VarP(&timeout, "timeout", "", bedlink.DefaultConfig().Timeout.Seconds(), "Read timeout in seconds")
	cmd.Flags().Float64VarP(&duration, "duration", "d", 0, "Seconds to dump, 0 dumps until interrupted")
	cmd.Flags().IntVarP(&chunk, "chunk-size", "", 128, "Max bytes read at once")

	return cmd
}

// Dump hands every chunk read from link to emit until ctx is done.
// Each read waits at most timeout, ctx is checked between reads.
func Dump(ctx context.Context, link hdlc.Link, timeout time.Duration, chunk int, emit func([]byte)) error {
	if err := link.SetReadTimeout(timeout); err != nil {
		return err
	}

	buf := make([]byte, chunk)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := link.Read(buf)
		if err != nil {
			return err
		}
		if n > 0 {
			emit(buf[:n])
		}
	}
}
