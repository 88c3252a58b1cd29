package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDebugFromEnv(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"0", false},
		{"false", false},
		{"nonsense", false},
		{"1", true},
		{"true", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv(DebugEnv, tt.value)
			if got := DebugFromEnv(); got != tt.want {
				t.Errorf("DebugFromEnv() with %q = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestNew_DebugEnvLowersLevel(t *testing.T) {
	t.Setenv(DebugEnv, "true")

	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Format: FormatText, Output: &buf})
	logger.Debug("coercion miss", "field", "Port")

	if !strings.Contains(buf.String(), "coercion miss") {
		t.Errorf("expected debug record with %s set, got: %q", DebugEnv, buf.String())
	}
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Output: &buf})

	ctx := NewContext(context.Background(), logger)
	FromContext(ctx).Info("from context")

	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("expected record from context logger, got: %q", buf.String())
	}

	if FromContext(context.Background()) == nil {
		t.Error("FromContext without a logger should return a discarding logger")
	}
}

func TestHandler_TraceLevelName(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, &slog.HandlerOptions{Level: LevelTrace}))
	logger.Log(context.Background(), LevelTrace, "set key", "path", "server.port")

	if !strings.Contains(buf.String(), "TRACE") {
		t.Errorf("expected TRACE level name, got: %q", buf.String())
	}
}

func TestHandler_GroupPrefixesKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, nil)).WithGroup("sync")
	logger.Info("pass complete", "bindings", 3)

	if !strings.Contains(buf.String(), "sync.bindings=3") {
		t.Errorf("expected group prefix, got: %q", buf.String())
	}
}

func TestNew_JSONRedacts(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf})
	logger.Info("loaded value", "db_password", "hunter22", "value", "ghp_abcdef")

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed["db_password"] != "****er22" {
		t.Errorf("db_password = %v, want masked", parsed["db_password"])
	}
	if parsed["value"] != "****cdef" {
		t.Errorf("value = %v, want masked", parsed["value"])
	}
}

func TestTee(t *testing.T) {
	var a, b bytes.Buffer
	logger := Tee(
		New(Config{Level: slog.LevelInfo, Output: &a}),
		New(Config{Level: slog.LevelDebug, Format: FormatJSON, Output: &b}),
		nil,
	)

	logger.Debug("debug only")
	logger.Info("both")

	if strings.Contains(a.String(), "debug only") {
		t.Errorf("text logger should filter debug, got: %q", a.String())
	}
	if !strings.Contains(a.String(), "both") || !strings.Contains(b.String(), "both") {
		t.Errorf("expected record in both outputs: %q / %q", a.String(), b.String())
	}
	if !strings.Contains(b.String(), "debug only") {
		t.Errorf("json logger should keep debug, got: %q", b.String())
	}
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfgsync.log")

	logger, f, err := NewFile(path, slog.LevelInfo)
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	logger.Info("written")
	if err := f.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), `"msg":"written"`) {
		t.Errorf("expected JSON record in file, got: %q", data)
	}
}
