// Package cli implements the handflow command-line interface.
//
// Commands cover the full workflow: compile turns a MuseScore archive
// into handpan tablature, parts and scales inspect the inputs on either
// side of that transformation, serve runs the web UI, and cache manages
// the on-disk compile cache. Everything is wired with cobra; output
// styling comes from lipgloss and logging from charmbracelet/log.
//
// A logger travels on the command context so helpers deep in the call
// tree report progress through the same sink:
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	err := c.RootCommand().ExecuteContext(ctx)
//
// Pass --verbose to any command for debug-level detail.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger builds the CLI logger: written to w, filtered at level, with
// timestamps down to the hundredth of a second so cache hits and real
// compiles are distinguishable in the output.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stopwatch times one operation from construction to done. Single
// goroutine use only.
type stopwatch struct {
	logger *log.Logger
	start  time.Time
}

func newStopwatch(l *log.Logger) *stopwatch {
	return &stopwatch{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time since construction, rounded to the
// millisecond: "Compiled 42 measures (1.234s)".
func (w *stopwatch) done(msg string) {
	w.logger.Infof("%s (%s)", msg, time.Since(w.start).Round(time.Millisecond))
}

// ctxKey keeps this package's context keys distinct from other packages'.
type ctxKey int

const loggerKey ctxKey = iota

// withLogger attaches l to the context for retrieval by command helpers.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the attached logger, or log.Default() when the
// context carries none, so callers never hold a nil logger.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
