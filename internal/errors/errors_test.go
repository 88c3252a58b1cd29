package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"testing"
)

func TestExitError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{"sentinel", NewUserError(ErrNotFound, ""), "not found"},
		{"fmt wrap", NewUserError(fmt.Errorf("loading shop.yaml: %w", ErrInvalidSchema), ""), "loading shop.yaml: invalid schema"},
		{"crdb wrap", NewSystemError(Wrap(ErrInvalidConfig, "reading settings"), ""), "reading settings: invalid configuration"},
		{"nil cause", NewSystemError(nil, ""), "exit status 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitError_Chain(t *testing.T) {
	err := Wrap(NewUserError(Wrapf(os.ErrNotExist, "schema %q", "shop.yaml"), "Check the schema path"), "apply")

	if !Is(err, os.ErrNotExist) {
		t.Error("Is should see through ExitError and both wraps")
	}
	if Is(err, ErrInvalidSchema) {
		t.Error("Is matched an unrelated sentinel")
	}
	var exitErr *ExitError
	if !As(err, &exitErr) || exitErr.Code != ExitUser {
		t.Errorf("As() = %v, want a user ExitError", exitErr)
	}
	if Unwrap(exitErr) == nil {
		t.Error("Unwrap should return the cause")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"user", NewUserError(ErrInvalidSchema, ""), ExitUser},
		{"config", NewConfigError(ErrInvalidConfig), ExitUser},
		{"wrapped system", Wrap(NewSystemError(ErrNotFound, ""), "apply"), ExitSystem},
		{"outermost wins", NewSystemError(NewUserError(ErrNotFound, ""), ""), ExitSystem},
		{"unclassified", New("disk on fire"), ExitSystem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSuggestion(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", New("boom"), ""},
		{"config", Wrap(NewConfigError(ErrInvalidConfig), "executing"), "Run: cfgsync config path"},
		{"inner", NewSystemError(NewUserError(ErrNotFound, "Check the file path"), ""), "Check the file path"},
		{"outer first", NewUserError(NewUserError(ErrNotFound, "inner"), "outer"), "outer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Suggestion(tt.err); got != tt.want {
				t.Errorf("Suggestion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMark(t *testing.T) {
	cause := Wrapf(os.ErrNotExist, "schema %q", "shop.yaml")
	err := Wrap(Mark(cause, ErrInvalidSchema), "apply")

	if !stderrors.Is(err, ErrInvalidSchema) || !Is(err, ErrInvalidSchema) {
		t.Error("both Is functions should match the mark")
	}
	if !stderrors.Is(err, os.ErrNotExist) || !Is(err, os.ErrNotExist) {
		t.Error("both Is functions should match the cause")
	}
	if stderrors.Is(err, ErrInvalidConfig) {
		t.Error("matched an unrelated sentinel")
	}
	if got, want := err.Error(), `apply: schema "shop.yaml": file does not exist`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if Mark(nil, ErrInvalidSchema) != nil {
		t.Error("Mark(nil) should be nil")
	}
}
