// Package cli implements the particle-wishes command-line interface.
//
// # Commands
//
//   - run: open the particle window (the default)
//   - tui: draw the scene in the terminal
//   - snapshot: render a template to a PNG without a window
//   - templates: list the templates and the gestures that select them
//
// All commands accept --config for a TOML file and --verbose (-v) for debug
// logging. The logger travels through the command context.
package cli

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps filtered at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// levelFor picks the log level: --verbose wins, then the config, then info.
func levelFor(verbose bool, configured string) log.Level {
	if verbose {
		return log.DebugLevel
	}
	if configured == "" {
		return log.InfoLevel
	}
	level, err := log.ParseLevel(strings.ToLower(configured))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// progress logs how long an operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time rounded to the millisecond.
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
