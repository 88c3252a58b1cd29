package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/thoreinstein/cfgsync/internal/errors"
)

// Format selects how records are rendered.
type Format string

const (
	// FormatText renders one aligned line per record for people.
	FormatText Format = "text"
	// FormatJSON renders one JSON object per record for tools.
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned by ParseFormat for names other than text
// and json.
var ErrUnknownFormat = errors.New("unknown log format")

// ParseFormat reads a --log-format value. Case and surrounding space are
// ignored; the empty string means text.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return f, nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "%q", name)
}

// Config describes a logger built by New.
type Config struct {
	// Level is the lowest level written. CFGSYNC_DEBUG can lower it to Debug.
	Level slog.Level
	// Format defaults to FormatText.
	Format Format
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New builds a logger from cfg. Both formats mask credential values.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	level := cfg.Level
	if level > slog.LevelDebug && DebugFromEnv() {
		level = slog.LevelDebug
	}

	if cfg.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: redactAttr,
		}))
	}
	return slog.New(NewHandler(out, &slog.HandlerOptions{Level: level}))
}

// NewFile opens path for appending and returns a JSON logger writing to it
// along with the file, which the caller closes.
func NewFile(path string, level slog.Level) (*slog.Logger, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening log file")
	}
	return New(Config{Level: level, Format: FormatJSON, Output: f}), f, nil
}

// Tee fans every record out to each non-nil logger.
func Tee(loggers ...*slog.Logger) *slog.Logger {
	handlers := make([]slog.Handler, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			handlers = append(handlers, l.Handler())
		}
	}
	return slog.New(NewMultiHandler(handlers...))
}

// NewDiscard returns a logger that drops everything.
func NewDiscard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ForTest returns a Trace-level text logger writing to the test's output,
// shown when the test fails or runs with -v.
func ForTest(tb testing.TB) *slog.Logger {
	tb.Helper()
	return New(Config{Level: LevelTrace, Format: FormatText, Output: tb.Output()})
}
