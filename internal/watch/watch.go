package watch

import (
	"context"
	"crypto/sha256"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thoreinstein/cfgsync/internal/errors"
	"github.com/thoreinstein/cfgsync/internal/logging"
)

// DefaultDebounce is used when no debounce delay is configured.
const DefaultDebounce = 500 * time.Millisecond

// Watcher observes one file.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	written map[[sha256.Size]byte]struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before the action runs. Non-positive
// values keep the default.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates a Watcher for path.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", path)
	}
	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		logger:   logging.NewDiscard(),
		written:  make(map[[sha256.Size]byte]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// MarkWritten records data as written by the caller. The next change whose
// content equals data is ignored once.
func (w *Watcher) MarkWritten(data []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.written[sha256.Sum256(data)] = struct{}{}
}

// ownWrite reports whether data is content passed to MarkWritten. Every
// settled change consumes all marks, so a mark whose write was overtaken
// by another edit cannot hide a later one.
func (w *Watcher) ownWrite(data []byte) bool {
	sum := sha256.Sum256(data)
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.written[sum]
	clear(w.written)
	return ok
}

// Run calls action after every settled change to the file until ctx is
// done. Errors from action are logged and watching continues. Run returns
// nil when ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, action func(context.Context) error) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating file watcher")
	}
	defer fsw.Close()

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return errors.Wrapf(err, "watching %s", dir)
	}
	w.logger.Info("watching for changes", "path", w.path, "debounce", w.debounce)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("watch stopped", "path", w.path)
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path || !relevant(event.Op) {
				continue
			}
			w.logger.Log(ctx, logging.LevelTrace, "file event", "op", event.Op.String(), "path", event.Name)
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "path", w.path, "error", err)

		case <-timer.C:
			data, err := os.ReadFile(w.path)
			if err != nil {
				if !os.IsNotExist(err) {
					w.logger.Warn("reading changed file", "path", w.path, "error", err)
				}
				continue
			}
			if w.ownWrite(data) {
				w.logger.Debug("ignoring own write", "path", w.path)
				continue
			}
			w.logger.Info("file changed", "path", w.path)
			if err := action(ctx); err != nil {
				w.logger.Warn("change handler failed", "path", w.path, "error", err)
			}
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}
