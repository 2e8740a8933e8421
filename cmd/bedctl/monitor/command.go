package monitor

import (
	"context"
	"errors"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mdouchement/bedlink"
	"github.com/mdouchement/bedlink/hdlc"
	"github.com/mdouchement/logger"
	"github.com/spf13/cobra"
)

func Command() *cobra.Command {
	var cpath string
	var dummy bool

	cmd := &cobra.Command{
		Use:   "monitor [port]",
		Short: "Start the TUI display of the frames streamed by a unit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := bedlink.LoadOrDefault(cpath)
			if err != nil {
				return err
			}

			rc, err := cfg.ReadConfig()
			if err != nil {
				return err
			}

			// The alternate screen is used, logs only go to stderr on errors.
			log := bedlink.NewLogger(os.Stderr, false)
			ctx, cancel := context.WithCancel(logger.WithLogger(context.Background(), log))
			defer cancel()

			opener := bedlink.LinkOpener
			port := bedlink.DummyPort
			if dummy {
				opener = bedlink.NewDummyOpener(ctx, time.Second)
			} else {
				var arg string
				if len(args) > 0 {
					arg = args[0]
				}
				if port, err = bedlink.ResolvePort(arg, cfg); err != nil {
					return err
				}
			}

			link, err := opener.Open(port, rc)
			if err != nil {
				return err
			}
			defer link.Close()

			m := newTUI(port)
			tui := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

			werr := make(chan error, 1)
			go func() {
				obs := &observer{send: tui.Send, now: time.Now}
				werr <- bedlink.Watch(ctx, link, hdlc.NewReader(), rc, obs)
				tui.Quit()
			}()

			_, err = tui.Run()
			cancel()

			if lerr := <-werr; lerr != nil && ctx.Err() == nil {
				return lerr
			}
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&cpath, "config", "c", "", "Configfile path (YAML or TOML)")
	cmd.Flags().BoolVarP(&dummy, "dummy", "", false, "Monitor a dummy unit")

	return cmd
}

// observer forwards observed frames to the TUI.
type observer struct {
	send func(tea.Msg)
	now  func() time.Time
}

func (o *observer) Opening(string, hdlc.ReadConfig) {}
func (o *observer) NothingObserved() {}
func (o *observer) Sent(int, []byte) {}
func (o *observer) Response(int, int, hdlc.Frame) {}
func (o *observer) NoRequests() {}

func (o *observer) Observed(n int, f hdlc.Frame) {
	o.send(frameMsg{n: n, at: o.now(), frame: f})
}
