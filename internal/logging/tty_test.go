package logging

import (
	"os"
	"testing"
)

func TestSupportsColor(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		isTTY bool
		want  bool
	}{
		{"terminal", nil, true, true},
		{"not a terminal", nil, false, false},
		{"NO_COLOR on terminal", map[string]string{"NO_COLOR": "1"}, true, false},
		{"TERM=dumb on terminal", map[string]string{"TERM": "dumb"}, true, false},
		{"forced on pipe", map[string]string{ForceColorEnv: "1"}, false, true},
		{"forced off", map[string]string{ForceColorEnv: "0"}, false, false},
		{"NO_COLOR beats force", map[string]string{"NO_COLOR": "", ForceColorEnv: "1"}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"NO_COLOR", "TERM", ForceColorEnv} {
				t.Setenv(k, "")
				os.Unsetenv(k)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if got := supportsColor(tt.isTTY); got != tt.want {
				t.Errorf("supportsColor(%v) = %v, want %v (env=%v)", tt.isTTY, got, tt.want, tt.env)
			}
		})
	}
}

func TestIsTTY_NonFile(t *testing.T) {
	var w mockWriter
	if IsTTY(&w) {
		t.Error("IsTTY should return false for a writer without Fd")
	}
}

type mockWriter struct{}

func (m *mockWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}
