package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/thoreinstein/cfgsync/internal/errors"
	"github.com/thoreinstein/cfgsync/internal/paths"
	"github.com/thoreinstein/cfgsync/pkg/fileutil"
)

const (
	manifestName = "manifest.json"
	idLayout     = "20060102T150405.000"
)

// Manager creates, lists, restores and prunes snapshots.
type Manager struct {
	rootDir        string
	retentionCount int
	toolVersion    string
	now            func() time.Time

	mu   sync.Mutex
	done map[string]bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the root backup directory.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		if dir != "" {
			m.rootDir = dir
		}
	}
}

// WithRetentionCount sets the number of snapshots kept per file.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// WithToolVersion records the running version in new manifests.
func WithToolVersion(v string) Option {
	return func(m *Manager) {
		m.toolVersion = v
	}
}

// NewManager creates a Manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rootDir:        paths.BackupDir(),
		retentionCount: DefaultRetentionCount,
		toolVersion:    "dev",
		now:            time.Now,
		done:           make(map[string]bool),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// EnsureBackedUp snapshots path once per Manager before it is modified. A
// missing file needs no snapshot.
func (m *Manager) EnsureBackedUp(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "resolving %s", path)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done[abs] {
		return nil
	}

	if _, err := os.Stat(abs); os.IsNotExist(err) {
		return nil
	}
	if _, err := m.Backup(abs); err != nil {
		return errors.Wrapf(err, "creating backup for %s", path)
	}
	m.done[abs] = true
	return nil
}

// Backup snapshots the file at path and prunes old snapshots. When the file
// matches its latest snapshot, that manifest is returned and nothing is
// written.
func (m *Manager) Backup(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", path)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if info.IsDir() {
		return nil, errors.Newf("%s is a directory", path)
	}

	hash, err := hashFile(abs)
	if err != nil {
		return nil, err
	}
	if latest, err := m.List(abs); err == nil && latest[0].SHA256Hash == hash {
		return &latest[0], nil
	}

	created := m.now().UTC()
	id, dir, err := m.reserve(abs, created)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(abs)
	if _, _, err := copyFile(abs, filepath.Join(dir, name)); err != nil {
		os.RemoveAll(dir)
		return nil, errors.Wrapf(err, "copying %s", path)
	}

	manifest := &Manifest{
		Version:     ManifestVersion,
		CreatedAt:   created,
		Source:      abs,
		File:        name,
		SHA256Hash:  hash,
		Mode:        info.Mode().Perm(),
		Size:        info.Size(),
		ToolVersion: m.toolVersion,
		ID:          id,
	}
	if err := fileutil.AtomicWriteJSON(filepath.Join(dir, manifestName), manifest); err != nil {
		os.RemoveAll(dir)
		return nil, errors.Wrap(err, "writing manifest")
	}

	if err := m.Prune(abs, m.retentionCount); err != nil {
		return manifest, errors.Wrap(err, "pruning old backups")
	}
	return manifest, nil
}

// reserve creates a fresh snapshot directory, suffixing the id when two
// snapshots land in the same millisecond.
func (m *Manager) reserve(abs string, created time.Time) (string, string, error) {
	base := created.Format(idLayout)
	parent := m.fileDir(abs)
	if err := paths.EnsureDir(parent, 0); err != nil {
		return "", "", errors.Wrap(err, "creating backup directory")
	}
	for i := 0; ; i++ {
		id := base
		if i > 0 {
			id = base + "-" + strconv.Itoa(i)
		}
		dir := filepath.Join(parent, id)
		err := os.Mkdir(dir, paths.DefaultDirPerm)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", errors.Wrap(err, "creating backup directory")
		}
	}
}

// Restore writes a snapshot back to its source path after verifying it.
func (m *Manager) Restore(path, id string) (*Manifest, error) {
	manifest, err := m.Get(path, id)
	if err != nil {
		return nil, err
	}

	src := filepath.Join(m.fileDir(manifest.Source), id, manifest.File)
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, errors.Wrapf(err, "reading backup %s", id)
	}
	sum := sha256.Sum256(data)
	if hex.EncodeToString(sum[:]) != manifest.SHA256Hash {
		return nil, errors.Wrapf(ErrBackupCorrupted, "backup %s hash mismatch", id)
	}

	if err := fileutil.AtomicWriteFile(manifest.Source, data, manifest.Mode); err != nil {
		return nil, errors.Wrapf(err, "restoring %s", manifest.Source)
	}
	return manifest, nil
}

// List returns the snapshots of path, newest first.
func (m *Manager) List(path string) ([]Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", path)
	}

	entries, err := os.ReadDir(m.fileDir(abs))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoBackupsFound
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := m.Get(abs, entry.Name())
		if err != nil {
			continue
		}
		manifests = append(manifests, *manifest)
	}
	if len(manifests) == 0 {
		return nil, ErrNoBackupsFound
	}

	slices.SortFunc(manifests, func(a, b Manifest) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return compareIDs(b.ID, a.ID)
	})
	return manifests, nil
}

// Prune removes all but the newest keep snapshots of path.
func (m *Manager) Prune(path string, keep int) error {
	if keep < 0 {
		return errors.New("keep must be non-negative")
	}

	manifests, err := m.List(path)
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return nil
		}
		return err
	}

	for _, old := range manifests[min(keep, len(manifests)):] {
		if err := os.RemoveAll(filepath.Join(m.fileDir(old.Source), old.ID)); err != nil {
			return errors.Wrapf(err, "removing backup %s", old.ID)
		}
	}
	return nil
}

// Get returns the manifest of one snapshot of path.
func (m *Manager) Get(path, id string) (*Manifest, error) {
	if id == "" {
		return nil, errors.New("backup ID is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", path)
	}

	data, err := os.ReadFile(filepath.Join(m.fileDir(abs), id, manifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s not found", id)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}
	manifest.ID = id
	return &manifest, nil
}

// fileDir returns the directory holding every snapshot of abs.
func (m *Manager) fileDir(abs string) string {
	return filepath.Join(m.rootDir, fileKey(abs))
}

// fileKey names a file's snapshot directory: its base name plus a short
// hash of the absolute path, so equal names in different directories do
// not collide.
func fileKey(abs string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	return filepath.Base(abs) + "-" + hex.EncodeToString(sum[:6])
}

// compareIDs orders ids created in the same millisecond by suffix.
func compareIDs(a, b string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// hashFile computes the SHA256 hash of a file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "opening file")
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, "reading file")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile copies src to dst, returning the SHA256 hash and mode.
func copyFile(src, dst string) (hash string, mode fs.FileMode, err error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return "", 0, errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return "", 0, errors.Wrap(err, "stat source file")
	}
	mode = srcInfo.Mode().Perm()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return "", 0, errors.Wrap(err, "creating destination file")
	}

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(dstFile, h), srcFile); err != nil {
		dstFile.Close()
		return "", 0, errors.Wrap(err, "copying file")
	}
	if err := dstFile.Close(); err != nil {
		return "", 0, errors.Wrap(err, "closing destination file")
	}

	return hex.EncodeToString(h.Sum(nil)), mode, nil
}
