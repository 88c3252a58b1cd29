package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{" JSON ", FormatJSON, false},
		{"logfmt", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNew_Formats(t *testing.T) {
	t.Setenv(DebugEnv, "")

	var jsonOut, textOut bytes.Buffer
	New(Config{Level: slog.LevelInfo, Format: FormatJSON, Output: &jsonOut}).
		Info("config written", "path", "config.yaml")
	New(Config{Level: slog.LevelInfo, Output: &textOut}).
		Info("config written", "path", "config.yaml")

	var parsed map[string]any
	if err := json.Unmarshal(jsonOut.Bytes(), &parsed); err != nil {
		t.Fatalf("JSON output is not JSON: %v: %q", err, jsonOut.String())
	}
	if parsed["msg"] != "config written" || parsed["path"] != "config.yaml" {
		t.Errorf("JSON record = %v", parsed)
	}
	if !strings.Contains(textOut.String(), "INFO  config written path=config.yaml") {
		t.Errorf("text record = %q", textOut.String())
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	t.Setenv(DebugEnv, "")

	tests := []struct {
		level slog.Level
		shown []string
	}{
		{LevelTrace, []string{"trace", "debug", "info", "warn", "error"}},
		{slog.LevelInfo, []string{"info", "warn", "error"}},
		{slog.LevelError, []string{"error"}},
	}
	for _, tt := range tests {
		t.Run(levelName(tt.level), func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: tt.level, Output: &buf})
			logger.Log(t.Context(), LevelTrace, "trace")
			logger.Debug("debug")
			logger.Info("info")
			logger.Warn("warn")
			logger.Error("error")

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(lines) != len(tt.shown) {
				t.Fatalf("got %d lines, want %d: %q", len(lines), len(tt.shown), buf.String())
			}
			for i, msg := range tt.shown {
				if !strings.HasSuffix(lines[i], " "+msg) {
					t.Errorf("line %d = %q, want message %q", i, lines[i], msg)
				}
			}
		})
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := map[int]slog.Level{
		-1: slog.LevelWarn,
		0:  slog.LevelWarn,
		1:  slog.LevelInfo,
		2:  slog.LevelDebug,
		3:  LevelTrace,
		7:  LevelTrace,
	}
	for v, want := range tests {
		if got := LevelFromVerbosity(v); got != want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", v, got, want)
		}
	}
}

func TestNewDiscard(t *testing.T) {
	logger := NewDiscard()
	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Error("discard logger should not enable any level")
	}
	logger.Error("dropped")
}

func TestForTest(t *testing.T) {
	logger := ForTest(t)
	if !logger.Enabled(t.Context(), LevelTrace) {
		t.Error("test logger should enable Trace")
	}
	logger.Debug("visible with -v", "field", "Port")
}
