// Package cli implements the slidesmith command.
//
//	slidesmith compose talk.deck -f svg,pdf   plan and render a deck
//	slidesmith preview talk.yaml              browse plans in the terminal
//	slidesmith inspect talk.json --slide 2    element list for one slide
//	slidesmith themes show glass              theme palette
//	slidesmith serve --addr :8080             HTTP API
//	slidesmith history                        recorded runs
//	slidesmith cache info                     local cache usage
//
// Logs go to stderr through charmbracelet/log; -v lowers the level to
// debug. Commands find the logger on their context. User-facing output
// goes to stdout.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger that writes to w at the given level, with
// "HH:MM:SS.ms" timestamps (e.g. "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took once it is done. It is meant
// for a single goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time rounded to the millisecond, plus any
// extra key/value pairs.
//
//	INFO Wrote 5 files elapsed=1.234s
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append([]any{"elapsed", time.Since(p.start).Round(time.Millisecond)}, keyvals...)
	p.logger.Info(msg, keyvals...)
}

type ctxKey struct{}

// withLogger attaches l to ctx for loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default()
// so commands run outside the root command still have one.
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
