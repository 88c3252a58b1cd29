// Package editor opens files in the user's preferred text editor.
package editor

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/cfgsync/internal/errors"
)

// Open launches the user's editor on path and waits for it to exit. The
// editor command may carry arguments, e.g. EDITOR="code --wait".
func Open(ctx context.Context, path string, stdin io.Reader, stdout, stderr io.Writer) error {
	name, args := command()
	cmd := exec.CommandContext(ctx, name, append(args, path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", name)
	}
	return nil
}

// command splits the detected editor into a program and its arguments.
func command() (string, []string) {
	fields := strings.Fields(detectEditor())
	if len(fields) == 0 {
		return "vi", nil
	}
	return fields[0], fields[1:]
}

// detectEditor returns the editor command: $VISUAL, then $EDITOR, then
// nano if installed, then vi.
func detectEditor() string {
	if visual := strings.TrimSpace(os.Getenv("VISUAL")); visual != "" {
		return visual
	}
	if editor := strings.TrimSpace(os.Getenv("EDITOR")); editor != "" {
		return editor
	}
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}
	return "vi"
}
