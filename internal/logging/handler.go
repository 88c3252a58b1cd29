package logging

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/fatih/color"
)

// timeLayout prints the time of day only.
const timeLayout = "15:04:05"

// Handler renders each record as one line:
//
//	15:04:05 DEBUG seeded missing value field=Port path=server.port
//
// Values containing spaces or quotes are quoted. Colors are used only when
// the output supports them.
type Handler struct {
	level   slog.Leveler
	out     io.Writer
	mu      *sync.Mutex
	colors  *palette
	prefix  string // group names joined with dots, ending in a dot
	preattr []byte // attributes from WithAttrs, already rendered
}

type palette struct {
	time, key                *color.Color
	trace, debug, info, warn *color.Color
	err                      *color.Color
}

func newPalette() *palette {
	return &palette{
		time:  color.New(color.FgHiBlack),
		key:   color.New(color.FgCyan),
		trace: color.New(color.FgHiBlack),
		debug: color.New(color.FgMagenta),
		info:  color.New(color.FgGreen),
		warn:  color.New(color.FgYellow),
		err:   color.New(color.FgRed, color.Bold),
	}
}

func (p *palette) forLevel(level slog.Level) *color.Color {
	switch {
	case level >= slog.LevelError:
		return p.err
	case level >= slog.LevelWarn:
		return p.warn
	case level >= slog.LevelInfo:
		return p.info
	case level >= slog.LevelDebug:
		return p.debug
	}
	return p.trace
}

// NewHandler creates a text handler writing to out. A nil opts, or one
// without a level, means Info.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	h := &Handler{level: slog.LevelInfo, out: out, mu: &sync.Mutex{}}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	if SupportsColor(out) {
		h.colors = newPalette()
	}
	return h
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler. The line is built first and written with
// a single call.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	if !r.Time.IsZero() {
		b.WriteString(h.paint(h.timeColor(), r.Time.Format(timeLayout)))
		b.WriteByte(' ')
	}
	name := levelName(r.Level)
	padding := strings.Repeat(" ", max(0, 5-len(name)))
	b.WriteString(h.paint(h.levelColor(r.Level), name))
	b.WriteString(padding)
	b.WriteByte(' ')
	b.WriteString(r.Message)
	b.Write(h.preattr)
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&b, h.prefix, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var b strings.Builder
	b.Write(h.preattr)
	for _, a := range attrs {
		h.writeAttr(&b, h.prefix, a)
	}
	next := *h
	next.preattr = []byte(b.String())
	return &next
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func (h *Handler) writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			h.writeAttr(b, prefix, ga)
		}
		return
	}

	var value string
	if masked, ok := redact(a.Key, a.Value.Any()); ok {
		value = masked
	} else {
		value = a.Value.String()
	}
	b.WriteByte(' ')
	b.WriteString(h.paint(h.keyColor(), prefix+a.Key))
	b.WriteByte('=')
	b.WriteString(quoteIfNeeded(value))
}

func (h *Handler) paint(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

func (h *Handler) timeColor() *color.Color {
	if h.colors == nil {
		return nil
	}
	return h.colors.time
}

func (h *Handler) keyColor() *color.Color {
	if h.colors == nil {
		return nil
	}
	return h.colors.key
}

func (h *Handler) levelColor(level slog.Level) *color.Color {
	if h.colors == nil {
		return nil
	}
	return h.colors.forLevel(level)
}

// levelName renders levels below Debug as TRACE.
func levelName(level slog.Level) string {
	if level < slog.LevelDebug {
		return "TRACE"
	}
	return level.String()
}

func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	if strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '"' || r == '=' || !unicode.IsPrint(r)
	}) >= 0 {
		return strconv.Quote(s)
	}
	return s
}
