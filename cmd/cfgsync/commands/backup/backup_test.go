package backup

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thoreinstein/cfgsync/internal/backup"
	"github.com/thoreinstein/cfgsync/internal/config"
	"github.com/thoreinstein/cfgsync/internal/errors"
)

func setup(t *testing.T) (*backup.Manager, string) {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(file, []byte("server:\n  port: 25565\n"), 0o600); err != nil {
		t.Fatalf("creating test file: %v", err)
	}
	return backup.NewManager(backup.WithBackupDir(filepath.Join(dir, "backups"))), file
}

func TestCreateAndList(t *testing.T) {
	mgr, file := setup(t)

	var buf bytes.Buffer
	if err := runCreate(&buf, mgr, file); err != nil {
		t.Fatalf("runCreate() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Created backup ") {
		t.Errorf("unexpected create output: %q", buf.String())
	}

	buf.Reset()
	if err := runCreate(&buf, mgr, file); err != nil {
		t.Fatalf("second runCreate() error = %v", err)
	}
	if !strings.Contains(buf.String(), "is unchanged since") {
		t.Errorf("unchanged file should not create a snapshot: %q", buf.String())
	}

	buf.Reset()
	if err := runList(&buf, mgr, file); err != nil {
		t.Fatalf("runList() error = %v", err)
	}
	for _, want := range []string{"ID", "CREATED", "SIZE", "22"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("table missing %q:\n%s", want, buf.String())
		}
	}
}

func TestList_JSON(t *testing.T) {
	orig := listJSON
	defer func() { listJSON = orig }()
	listJSON = true

	mgr, file := setup(t)
	manifest, err := mgr.Backup(file)
	if err != nil {
		t.Fatalf("creating backup: %v", err)
	}

	var buf bytes.Buffer
	if err := runList(&buf, mgr, file); err != nil {
		t.Fatalf("runList() error = %v", err)
	}

	var parsed []infoOutput
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("expected valid JSON, got error: %v\n%s", err, buf.String())
	}
	if len(parsed) != 1 || parsed[0].ID != manifest.ID || parsed[0].SHA256Hash != manifest.SHA256Hash {
		t.Errorf("unexpected parsed output: %+v", parsed)
	}
}

func TestList_Empty(t *testing.T) {
	mgr, file := setup(t)
	var buf bytes.Buffer
	if err := runList(&buf, mgr, file); err != nil {
		t.Fatalf("runList() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No backups of") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestRestore_Latest(t *testing.T) {
	mgr, file := setup(t)
	original, _ := os.ReadFile(file)
	if _, err := mgr.Backup(file); err != nil {
		t.Fatalf("creating backup: %v", err)
	}
	if err := os.WriteFile(file, []byte("server: {}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := runRestore(&buf, mgr, file, ""); err != nil {
		t.Fatalf("runRestore() error = %v", err)
	}
	restored, _ := os.ReadFile(file)
	if !bytes.Equal(restored, original) {
		t.Errorf("restored content = %q, want %q", restored, original)
	}
	if !strings.HasPrefix(buf.String(), "Restored ") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestRestore_Errors(t *testing.T) {
	mgr, file := setup(t)

	err := runRestore(&bytes.Buffer{}, mgr, file, "")
	if errors.ExitCode(err) != errors.ExitUser || !errors.Is(err, backup.ErrNoBackupsFound) {
		t.Errorf("restore without snapshots: error = %v (exit %d)", err, errors.ExitCode(err))
	}

	err = runRestore(&bytes.Buffer{}, mgr, file, "20990101T000000.000")
	if !errors.Is(err, backup.ErrNoBackupsFound) {
		t.Errorf("restore of unknown id: error = %v", err)
	}
}

func TestPrune(t *testing.T) {
	mgr, file := setup(t)

	err := runPrune(&bytes.Buffer{}, mgr, file, -1)
	if err == nil || !strings.Contains(err.Error(), "--keep must be non-negative") {
		t.Errorf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := runPrune(&buf, mgr, file, 1); err != nil {
		t.Fatalf("runPrune() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No backups to prune") {
		t.Errorf("unexpected output: %q", buf.String())
	}

	for _, content := range []string{"a: 1\n", "a: 2\n"} {
		if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := mgr.Backup(file); err != nil {
			t.Fatalf("creating backup: %v", err)
		}
	}

	buf.Reset()
	if err := runPrune(&buf, mgr, file, 1); err != nil {
		t.Fatalf("runPrune() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Removed 1 old backup(s)") {
		t.Errorf("unexpected output: %q", buf.String())
	}
	manifests, _ := mgr.List(file)
	if len(manifests) != 1 {
		t.Errorf("expected 1 snapshot after prune, got %d", len(manifests))
	}
}

func TestNewManager_BackupDirSetting(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Backup.Dir = filepath.Join(dir, "snapshots")

	mgr, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	file := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(file, []byte("a: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Backup(file); err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if _, err := os.Stat(cfg.Backup.Dir); err != nil {
		t.Errorf("backup.dir not used: %v", err)
	}
}
