package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("computed layout", "ranks", 3)

	line := buf.String()
	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(line) {
		t.Errorf("log line %q does not start with an HH:MM:SS.ms timestamp", line)
	}
	if !strings.Contains(line, "computed layout") || !strings.Contains(line, "ranks=3") {
		t.Errorf("log line %q missing message or fields", line)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level     log.Level
		wantLines int
	}{
		{level: log.InfoLevel, wantLines: 1},
		{level: log.DebugLevel, wantLines: 2},
		{level: log.WarnLevel, wantLines: 0},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			logger.Debug("cache miss")
			logger.Info("computed layout")

			if got := strings.Count(buf.String(), "\n"); got != tt.wantLines {
				t.Errorf("got %d lines, want %d:\n%s", got, tt.wantLines, buf.String())
			}
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.Logger.Debug("hidden")
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.DebugLevel)).done("Laid out roadmap.yaml")

	if !strings.Contains(buf.String(), "Laid out roadmap.yaml (") {
		t.Errorf("progress.done() output = %q, want message with elapsed time", buf.String())
	}
}

func TestProgressQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Laid out roadmap.yaml")
	if buf.Len() != 0 {
		t.Errorf("progress.done() at info level wrote %q", buf.String())
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext without a logger should return log.Default()")
	}

	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), logger)
	if loggerFromContext(ctx) != logger {
		t.Error("loggerFromContext should return the attached logger")
	}
}
