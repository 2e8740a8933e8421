package bedlink

import (
	"io"
	"log/slog"
	"regexp"

	"github.com/mdouchement/logger"
)

// NewLogger returns the text logger used by every command.
// Messages starting with a [component] prefix get it highlighted.
func NewLogger(w io.Writer, debug bool) logger.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	h := logger.NewSlogTextHandler(w, &logger.SlogTextOption{
		Level:           level,
		ForceColors:     true,
		ForceFormatting: true,
		PrefixRE:        regexp.MustCompile(`^(\[.*?\])\s`),
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	return logger.WrapSlogHandler(h)
}
