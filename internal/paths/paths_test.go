package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/thoreinstein/cfgsync/internal/errors"
)

func TestResolveHome(t *testing.T) {
	got, err := ResolveHome()
	want, _ := os.UserHomeDir()

	if err != nil {
		if !errors.Is(err, ErrHomeDirNotFound) {
			t.Errorf("unexpected error type: %v", err)
		}
	} else if got != want {
		t.Errorf("ResolveHome() = %q, want %q", got, want)
	}
}

func TestBaseDirsAreAbsolute(t *testing.T) {
	for name, dir := range map[string]string{
		"ConfigHome": ConfigHome(),
		"StateHome":  StateHome(),
		"BackupDir":  BackupDir(),
	} {
		if !filepath.IsAbs(dir) {
			t.Errorf("%s() = %q, want absolute path", name, dir)
		}
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv(ConfigDirEnv, "")
	if got, want := ConfigDir(), filepath.Join(ConfigHome(), AppName); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}

	override := t.TempDir()
	t.Setenv(ConfigDirEnv, override)
	if got := ConfigDir(); got != override {
		t.Errorf("ConfigDir() with %s = %q, want %q", ConfigDirEnv, got, override)
	}
	if got, want := ConfigFile(), filepath.Join(override, "config.yaml"); got != want {
		t.Errorf("ConfigFile() = %q, want %q", got, want)
	}
}

func TestExpand(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"~", home, false},
		{"~/schemas/shop.yaml", filepath.Join(home, "schemas", "shop.yaml"), false},
		{"./a/../b.yml", "b.yml", false},
		{"/etc/cfgsync/", "/etc/cfgsync", false},
		{"~other/x", "~other/x", false},
		{"", "", true},
		{"bad\x00path", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Expand(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPath) {
					t.Errorf("Expand(%q) error = %v, want ErrInvalidPath", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expand(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Expand(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureDir(dir, 0); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != DefaultDirPerm {
		t.Errorf("mode = %v, want %v", info.Mode().Perm(), os.FileMode(DefaultDirPerm))
	}
	if err := EnsureDir(dir, 0); err != nil {
		t.Errorf("EnsureDir() on existing dir error = %v", err)
	}
}
