package editor

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDetectEditor(t *testing.T) {
	tests := []struct {
		name   string
		visual string
		editor string
		want   string
	}{
		{"VISUAL wins", "code --wait", "nvim", "code --wait"},
		{"EDITOR when VISUAL unset", "", "nvim", "nvim"},
		{"blank VISUAL falls through", "   ", "hx", "hx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("VISUAL", tt.visual)
			t.Setenv("EDITOR", tt.editor)
			if got := detectEditor(); got != tt.want {
				t.Errorf("detectEditor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectEditor_Fallback(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")

	want := "vi"
	if _, err := exec.LookPath("nano"); err == nil {
		want = "nano"
	}
	if got := detectEditor(); got != want {
		t.Errorf("detectEditor() = %q, want %q", got, want)
	}
}

func TestCommand_SplitsArguments(t *testing.T) {
	t.Setenv("VISUAL", "code --wait -n")
	name, args := command()
	if name != "code" || len(args) != 2 || args[0] != "--wait" || args[1] != "-n" {
		t.Errorf("command() = %q %q", name, args)
	}
}

func TestOpen(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as the editor")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "fake-editor")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho edited >> \"$1\"\n"), 0o700); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(target, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("VISUAL", script)
	var out bytes.Buffer
	if err := Open(context.Background(), target, nil, &out, &out); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	got, _ := os.ReadFile(target)
	if string(got) != "edited\n" {
		t.Errorf("file content = %q, want %q", got, "edited\n")
	}

	t.Setenv("VISUAL", filepath.Join(dir, "missing-editor"))
	if err := Open(context.Background(), target, nil, &out, &out); err == nil {
		t.Error("Open() with a missing editor should fail")
	}
}
