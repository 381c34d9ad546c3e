package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	logger.Info("test message")
	if buf.Len() == 0 {
		t.Error("logger should have written output")
	}

	buf.Reset()
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Error("debug should be filtered at info level")
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		name       string
		verbose    bool
		configured string
		want       log.Level
	}{
		{"default", false, "", log.InfoLevel},
		{"verbose wins", true, "error", log.DebugLevel},
		{"from config", false, "warn", log.WarnLevel},
		{"config is case-insensitive", false, "ERROR", log.ErrorLevel},
		{"unknown falls back", false, "chatty", log.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := levelFor(tt.verbose, tt.configured); got != tt.want {
				t.Errorf("levelFor(%v, %q) = %v, want %v", tt.verbose, tt.configured, got, tt.want)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := newLogger(&bytes.Buffer{}, log.InfoLevel)
	ctx := withLogger(context.Background(), logger)
	if got := loggerFromContext(ctx); got != logger {
		t.Error("loggerFromContext did not return the attached logger")
	}
	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Error("empty context should fall back to log.Default()")
	}
}
