package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/five82/gallery/internal/config"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Fatalf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Ingested 3 photos", "thumbs", 9)
	out := buf.String()
	if !strings.Contains(out, "Ingested 3 photos (") || !strings.Contains(out, "thumbs=9") {
		t.Fatalf("progress output = %q", out)
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Fatal("loggerFromContext should fall back to the default logger")
	}
	l := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Fatal("loggerFromContext returned a different logger")
	}
}

func TestConfigFromContext(t *testing.T) {
	if got := configFromContext(context.Background()); got.Listen != config.Default().Listen {
		t.Fatalf("fallback config listen = %q", got.Listen)
	}
	cfg := config.Default()
	cfg.Listen = "0.0.0.0:9000"
	if got := configFromContext(withConfig(context.Background(), cfg)); got.Listen != "0.0.0.0:9000" {
		t.Fatalf("config listen = %q", got.Listen)
	}
}
