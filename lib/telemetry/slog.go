package telemetry

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

func newHandler(w io.Writer, verbose, noColor bool) slog.Handler {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	})
}

// InitSlog installs a tint handler on stderr as the default logger, colors
// are only used when stderr is a terminal.
func InitSlog(verbose bool) {
	noColor := !isatty.IsTerminal(os.Stderr.Fd())
	slog.SetDefault(slog.New(newHandler(os.Stderr, verbose, noColor)))
}
