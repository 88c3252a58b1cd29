package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDebounce = 30 * time.Millisecond

func startWatcher(t *testing.T, w *Watcher) <-chan struct{} {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan struct{}, 8)
	done := make(chan error, 1)

	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			changes <- struct{}{}
			return nil
		})
	}()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})

	// Give the watcher time to register the directory
	time.Sleep(50 * time.Millisecond)
	return changes
}

func waitForChange(t *testing.T, changes <-chan struct{}) {
	t.Helper()
	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change")
	}
}

func assertNoChange(t *testing.T, changes <-chan struct{}) {
	t.Helper()
	select {
	case <-changes:
		t.Fatal("unexpected change")
	case <-time.After(10 * testDebounce):
	}
}

func TestNew(t *testing.T) {
	w, err := New("config.yaml", WithDebounce(-1), WithLogger(nil))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(w.Path()))
	assert.Equal(t, DefaultDebounce, w.debounce)
	assert.NotNil(t, w.logger)
}

func TestRun_CollapsesBurst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0o600))

	w, err := New(path, WithDebounce(testDebounce))
	require.NoError(t, err)
	changes := startWatcher(t, w)

	for i := range 5 {
		require.NoError(t, os.WriteFile(path, []byte("a: "+string(rune('2'+i))+"\n"), 0o600))
	}
	waitForChange(t, changes)
	assertNoChange(t, changes)
}

func TestRun_IgnoresOwnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0o600))

	w, err := New(path, WithDebounce(testDebounce))
	require.NoError(t, err)
	changes := startWatcher(t, w)

	own := []byte("a: 2\n")
	w.MarkWritten(own)
	require.NoError(t, os.WriteFile(path, own, 0o600))
	assertNoChange(t, changes)

	require.NoError(t, os.WriteFile(path, []byte("a: 3\n"), 0o600))
	waitForChange(t, changes)
}

func TestRun_OvertakenMarkIsDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0o600))

	w, err := New(path, WithDebounce(testDebounce))
	require.NoError(t, err)
	changes := startWatcher(t, w)

	// The marked content never lands before a user edit settles
	marked := []byte("a: 2\n")
	w.MarkWritten(marked)
	require.NoError(t, os.WriteFile(path, []byte("a: 3\n"), 0o600))
	waitForChange(t, changes)

	require.NoError(t, os.WriteFile(path, marked, 0o600))
	waitForChange(t, changes)
}

func TestOwnWrite_ConsumesAllMarks(t *testing.T) {
	w, err := New("config.yaml")
	require.NoError(t, err)
	w.MarkWritten([]byte("a"))
	w.MarkWritten([]byte("b"))

	assert.True(t, w.ownWrite([]byte("a")))
	assert.False(t, w.ownWrite([]byte("b")))
	assert.Empty(t, w.written)
}

func TestRun_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0o600))

	w, err := New(path, WithDebounce(testDebounce))
	require.NoError(t, err)
	changes := startWatcher(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("b: 1\n"), 0o600))
	assertNoChange(t, changes)
}

func TestRun_MissingDirectory(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "missing", "config.yaml"))
	require.NoError(t, err)
	err = w.Run(context.Background(), func(context.Context) error { return nil })
	assert.Error(t, err)
}
