package translate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thoreinstein/cfgsync/internal/errors"
	"github.com/thoreinstein/cfgsync/pkg/store"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"yaml", YAML, false},
		{"YML", YAML, false},
		{" toml ", TOML, false},
		{"json", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("error %v does not match ErrUnsupportedFormat", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatOf(t *testing.T) {
	if f, err := FormatOf("/etc/shop/config.yml"); err != nil || f != YAML {
		t.Errorf("FormatOf(.yml) = %q, %v", f, err)
	}
	if f, err := FormatOf("legacy.toml"); err != nil || f != TOML {
		t.Errorf("FormatOf(.toml) = %q, %v", f, err)
	}
	if _, err := FormatOf("config"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("FormatOf without extension error = %v", err)
	}
}

func TestExport(t *testing.T) {
	doc, err := store.Parse([]byte("# Shop\nserver:\n  port: 25565 # tcp\n  name: shop\n"))
	if err != nil {
		t.Fatal(err)
	}

	yamlOut, err := Export(doc, YAML)
	if err != nil {
		t.Fatalf("Export(YAML) error = %v", err)
	}
	if !strings.Contains(string(yamlOut), "port: 25565 # tcp") {
		t.Errorf("YAML export lost the inline comment:\n%s", yamlOut)
	}

	tomlOut, err := Export(doc, TOML)
	if err != nil {
		t.Fatalf("Export(TOML) error = %v", err)
	}
	got := string(tomlOut)
	for _, want := range []string{"[server]", "port = 25565", "name = 'shop'"} {
		if !strings.Contains(got, want) {
			t.Errorf("TOML export missing %q:\n%s", want, got)
		}
	}

	if _, err := Export(doc, Format("ini")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Export(ini) error = %v", err)
	}
}

func TestYAMLToTOML(t *testing.T) {
	out, err := YAMLToTOML([]byte("name: test\nenabled: true\n"))
	if err != nil {
		t.Fatalf("YAMLToTOML failed: %v", err)
	}
	if !strings.Contains(string(out), "enabled = true") {
		t.Errorf("unexpected TOML output:\n%s", out)
	}

	if _, err := YAMLToTOML([]byte("- a\n- b\n")); !errors.Is(err, store.ErrNotMapping) {
		t.Errorf("YAMLToTOML(list) error = %v, want ErrNotMapping", err)
	}
}

func TestTOMLToYAML(t *testing.T) {
	out, err := TOMLToYAML([]byte("name = \"test\"\n[limits]\nmax-users = 100\n"))
	if err != nil {
		t.Fatalf("TOMLToYAML failed: %v", err)
	}
	doc, err := store.Parse(out)
	if err != nil {
		t.Fatalf("output is not a YAML document: %v", err)
	}
	if v, _ := doc.Get("limits.max-users"); v != 100 {
		t.Errorf("limits.max-users = %v, want 100", v)
	}

	if _, err := TOMLToYAML([]byte("name = ")); err == nil {
		t.Error("expected an error for malformed TOML")
	}
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "legacy.toml")
	if err := os.WriteFile(tomlPath, []byte("[server]\nport = 8080\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	yamlPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(yamlPath, []byte("server:\n  port: 9090\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	doc, err := Read(tomlPath)
	if err != nil {
		t.Fatalf("Read(toml) error = %v", err)
	}
	if v, _ := doc.Get("server.port"); v != 8080 {
		t.Errorf("server.port from TOML = %v, want 8080", v)
	}

	doc, err = Read(yamlPath)
	if err != nil {
		t.Fatalf("Read(yaml) error = %v", err)
	}
	if v, _ := doc.Get("server.port"); v != 9090 {
		t.Errorf("server.port from YAML = %v, want 9090", v)
	}

	if _, err := Read(filepath.Join(dir, "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Read(missing) error = %v, want os.ErrNotExist", err)
	}
	if _, err := Read(filepath.Join(dir, "config.ini")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Read(ini) error = %v", err)
	}
}
