package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/mdouchement/bedlink"
	"github.com/mdouchement/bedlink/cmd/bedctl/dump"
	"github.com/mdouchement/bedlink/cmd/bedctl/encode"
	"github.com/mdouchement/bedlink/cmd/bedctl/monitor"
	"github.com/mdouchement/bedlink/cmd/bedctl/plot"
	"github.com/mdouchement/bedlink/cmd/bedctl/ports"
	"github.com/mdouchement/bedlink/cmd/bedctl/show"
	"github.com/mdouchement/bedlink/hexbyte"
	"github.com/mdouchement/logger"
	"github.com/spf13/cobra"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	errUsage    = errors.New("usage")
	errReported = errors.New("reported")
)

type options struct {
	cpath    string
	record   string
	debug    bool
	dummy    bool
	baudrate int
	timeout  float64
	gap      float64
	initial  float64
	settle   float64
	requests []string
	answers  int
	crcmode  string
	keepcrc  bool
	shared   bool
}

func main() {
	os.Exit(exitCode(os.Stderr, newCommand().Execute()))
}

func newCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "bedctl [port]",
		Short:         "Listen to a bed control unit then send it hex requests",
		Version:       fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		c.PrintErrln(c.UsageString())
		return fmt.Errorf("%w: %w", errUsage, err)
	})

	defaults := bedlink.DefaultConfig()
	flags := cmd.Flags()
	flags.StringVarP(&opts.cpath, "config", "c", "", "Configfile path (YAML or TOML)")
	flags.StringVarP(&opts.record, "record", "", "", "Record the session to a capture file")
	flags.BoolVarP(&opts.debug, "debug", "", false, "Enable debug logs")
	flags.BoolVarP(&opts.dummy, "dummy", "", false, "Talk to a dummy unit instead of a real port")
	flags.IntVarP(&opts.baudrate, "baudrate", "", defaults.BaudRate, "Serial baudrate")
	flags.Float64VarP(&opts.timeout, "timeout", "", defaults.Timeout.Seconds(), "Seconds to wait for one frame")
	flags.Float64VarP(&opts.gap, "interbyte-timeout", "", defaults.InterbyteTimeout.Seconds(), "Max seconds between two bytes of a frame")
	flags.Float64VarP(&opts.initial, "initial-seconds", "", defaults.InitialListen.Seconds(), "Seconds to passively capture Okamzite hodnoty frames")
	flags.StringArrayVarP(&opts.requests, "request", "", nil, "Hex request to send after the initial capture (repeatable), e.g. \"7E 14 17 00 7E\"")
	flags.IntVarP(&opts.answers, "responses-per-request", "", defaults.ResponsesPerRequest, "Frames to read after each request")
	flags.Float64VarP(&opts.settle, "post-write-delay", "", defaults.PostWriteDelay.Seconds(), "Seconds to wait after a request before reading")
	flags.StringVarP(&opts.crcmode, "crc-mode", "", defaults.CRCMode, "Frame check: none, x25 or absent")
	flags.BoolVarP(&opts.keepcrc, "keep-crc", "", false, "Keep the 2 FCS bytes in displayed frames")
	flags.BoolVarP(&opts.shared, "shared-flags", "", false, "A closing flag also opens the next frame")

	cmd.AddCommand(dump.Command())
	cmd.AddCommand(ports.Command())
	cmd.AddCommand(monitor.Command())
	cmd.AddCommand(show.Command())
	cmd.AddCommand(plot.Command())
	cmd.AddCommand(encode.Command())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Version for bedctl",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(cmd.Version)
		},
	})

	return cmd
}

// exitCode prints err to w unless it was already reported and returns the process exit code.
func exitCode(w io.Writer, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	case errors.Is(err, errReported):
		return 2
	case errors.Is(err, errUsage):
		fmt.Fprintln(w, err)
		return 2
	default:
		fmt.Fprintln(w, "Error:", err)
		return 1
	}
}

func run(cmd *cobra.Command, args []string, opts options) error {
	cfg, err := bedlink.LoadOrDefault(opts.cpath)
	if err != nil {
		return err
	}
	override(cmd, &cfg, opts)

	log := bedlink.NewLogger(cmd.ErrOrStderr(), cfg.Debug)
	ctx := logger.WithLogger(context.Background(), log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	//

	printer := bedlink.NewPrinter(cmd.OutOrStdout())
	recorder := bedlink.NewRecorder()
	var obs bedlink.Observer = printer
	if opts.record != "" {
		obs = bedlink.Observers{printer, recorder}
	}

	session, err := bedlink.NewSession(cfg, "", obs)
	if err != nil {
		if reportRequests(cmd.ErrOrStderr(), err) {
			return fmt.Errorf("%w: %w", errReported, err)
		}
		return err
	}

	if opts.dummy {
		session.Port = bedlink.DummyPort
		session.Opener = bedlink.NewDummyOpener(ctx, time.Second)
	} else {
		session.Port, err = bedlink.ResolvePort(argument(args), cfg)
		if err != nil {
			return err
		}
	}

	err = session.Run(ctx)
	if opts.record != "" {
		if serr := recorder.Save(opts.record); serr != nil {
			log.WithError(serr).Errorf("Could not save capture to %s", opts.record)
		}
	}
	if errors.Is(err, context.Canceled) {
		log.Debug("Interrupted")
	}
	return err
}

// override applies the flags explicitly given on the command line.
func override(cmd *cobra.Command, cfg *bedlink.Config, opts options) {
	flags := cmd.Flags()

	if flags.Changed("debug") {
		cfg.Debug = opts.debug
	}
	if flags.Changed("baudrate") {
		cfg.BaudRate = opts.baudrate
	}
	if flags.Changed("timeout") {
		cfg.Timeout.Duration = bedlink.Seconds(opts.timeout)
	}
	if flags.Changed("interbyte-timeout") {
		cfg.InterbyteTimeout.Duration = bedlink.Seconds(opts.gap)
	}
	if flags.Changed("initial-seconds") {
		cfg.InitialListen.Duration = bedlink.Seconds(opts.initial)
	}
	if flags.Changed("post-write-delay") {
		cfg.PostWriteDelay.Duration = bedlink.Seconds(opts.settle)
	}
	if flags.Changed("responses-per-request") {
		cfg.ResponsesPerRequest = opts.answers
	}
	if flags.Changed("crc-mode") {
		cfg.CRCMode = opts.crcmode
	}
	if flags.Changed("keep-crc") {
		cfg.KeepCRC = opts.keepcrc
	}
	if flags.Changed("shared-flags") {
		cfg.SharedFlags = opts.shared
	}
	if flags.Changed("request") {
		cfg.Requests = opts.requests
	}
}

// reportRequests prints every request that could not be parsed.
func reportRequests(w io.Writer, err error) bool {
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}

	var found bool
	for _, e := range errs {
		var perr *hexbyte.ParseError
		if !errors.As(e, &perr) {
			continue
		}

		found = true
		fmt.Fprintf(w, "Could not parse request '%s': %s\n", perr.Text, perr)
	}

	return found
}

func argument(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
