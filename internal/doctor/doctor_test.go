package doctor

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/thoreinstein/cfgsync/internal/errors"
	"github.com/thoreinstein/cfgsync/internal/schema"
)

type fixedCheck struct {
	name   string
	status Severity
}

func (c fixedCheck) Name() string     { return c.name }
func (c fixedCheck) Category() string { return "test" }
func (c fixedCheck) Run(context.Context) *CheckResult {
	return &CheckResult{Status: c.status}
}

func TestRunner_Summary(t *testing.T) {
	r := NewRunner(
		fixedCheck{"a", SeverityPass},
		fixedCheck{"b", SeverityWarning},
	)
	r.AddCheck(fixedCheck{"c", SeverityError})
	r.AddCheck(fixedCheck{"d", SeverityInfo})

	report := r.Run(context.Background())
	want := Summary{Passed: 1, Info: 1, Warnings: 1, Errors: 1}
	if report.Summary != want {
		t.Errorf("Summary = %+v, want %+v", report.Summary, want)
	}
	if !report.HasErrors() || !report.HasWarnings() {
		t.Error("report should have errors and warnings")
	}
	if got := report.Results[1]; got.Name != "b" || got.Category != "test" {
		t.Errorf("result = %q/%q, want defaults from the check", got.Name, got.Category)
	}
}

func TestRunner_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report := NewRunner(fixedCheck{"a", SeverityPass}).Run(ctx)
	if len(report.Results) != 0 {
		t.Errorf("ran %d checks after cancel", len(report.Results))
	}
}

func TestSeverity_JSON(t *testing.T) {
	data, err := json.Marshal(&CheckResult{Name: "x", Status: SeverityWarning})
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"name":"x","category":"","status":"warning","message":""}`; string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
	if Severity(42).String() != "unknown" {
		t.Error("out of range severity should be unknown")
	}
}

func TestSettingsCheck(t *testing.T) {
	tests := []struct {
		name  string
		check SettingsCheck
		want  Severity
	}{
		{"loaded", SettingsCheck{File: "/etc/cfgsync.yaml"}, SeverityPass},
		{"defaults", SettingsCheck{}, SeverityInfo},
		{"broken", SettingsCheck{File: "x", Err: errors.ErrInvalidConfig}, SeverityError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check.Run(context.Background()).Status; got != tt.want {
				t.Errorf("Status = %v, want %v", got, tt.want)
			}
		})
	}
}

const testSchema = `version: 1
fields:
  - field: Port
    path: server.port
    type: int
    default: 80
`

func writeSchema(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "schema.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSchemaCheck(t *testing.T) {
	dir := t.TempDir()
	good := writeSchema(t, dir, testSchema)
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("version: 9\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := map[string]Severity{
		"":                            SeverityWarning,
		good:                          SeverityPass,
		bad:                           SeverityError,
		filepath.Join(dir, "missing"): SeverityError,
	}
	for path, want := range tests {
		result := (&SchemaCheck{Path: path}).Run(context.Background())
		if result.Status != want {
			t.Errorf("SchemaCheck(%q) = %v (%s), want %v", path, result.Status, result.Message, want)
		}
	}
}

func TestBackupCheck(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")

	if got := (&BackupCheck{Dir: dir}).Run(context.Background()).Status; got != SeverityInfo {
		t.Errorf("disabled = %v, want info", got)
	}
	if got := (&BackupCheck{Enabled: true, Dir: dir}).Run(context.Background()).Status; got != SeverityPass {
		t.Errorf("writable = %v, want pass", got)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("probe left behind: %v", entries)
	}

	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if got := (&BackupCheck{Enabled: true, Dir: file}).Run(context.Background()).Status; got != SeverityError {
		t.Errorf("file as dir = %v, want error", got)
	}
}

func TestDriftCheck(t *testing.T) {
	dir := t.TempDir()
	f, err := schema.Load(writeSchema(t, dir, testSchema))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		content *string
		want    Severity
	}{
		{"missing file", nil, SeverityWarning},
		{"missing key", ptr("other: 1\n"), SeverityWarning},
		{"in sync", ptr("server:\n  port: 8080\n"), SeverityPass},
		{"not yaml", ptr("server: [\n"), SeverityError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if tt.content != nil {
				if err := os.WriteFile(path, []byte(*tt.content), 0o600); err != nil {
					t.Fatal(err)
				}
			}
			result := (&DriftCheck{Path: path, Schema: f, Indent: 2}).Run(context.Background())
			if result.Status != tt.want {
				t.Errorf("Status = %v (%s), want %v", result.Status, result.Message, tt.want)
			}
			if tt.name == "missing key" {
				missing, _ := result.Details["missing"].([]string)
				if len(missing) != 1 || missing[0] != "server.port" {
					t.Errorf("missing = %v, want [server.port]", missing)
				}
			}
		})
	}
}

func ptr(s string) *string { return &s }
