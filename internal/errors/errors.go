package errors

import (
	"strconv"

	crdb "github.com/cockroachdb/errors"
)

// Process exit codes.
const (
	ExitSuccess = 0
	// ExitUser covers bad arguments, schemas, settings and config files.
	ExitUser = 1
	// ExitSystem covers I/O failures and anything not classified.
	ExitSystem = 2
)

var (
	// ErrNotFound marks a missing file, key or snapshot.
	ErrNotFound = crdb.New("not found")

	// ErrInvalidConfig marks settings that failed to load or validate.
	ErrInvalidConfig = crdb.New("invalid configuration")

	// ErrInvalidSchema marks a schema file that cannot be loaded or built.
	ErrInvalidSchema = crdb.New("invalid schema")
)

// Helpers from github.com/cockroachdb/errors, so callers import one package.
var (
	New    = crdb.New
	Newf   = crdb.Newf
	Wrap   = crdb.Wrap
	Wrapf  = crdb.Wrapf
	Is     = crdb.Is
	As     = crdb.As
	Join   = crdb.Join
	Unwrap = crdb.UnwrapOnce
)

// Mark returns err with sentinel added to its chain, so both the standard
// library's errors.Is and this package's Is match it. The message is err's.
func Mark(err, sentinel error) error {
	if err == nil {
		return nil
	}
	return &marked{err: err, sentinel: sentinel}
}

type marked struct {
	err, sentinel error
}

func (m *marked) Error() string { return m.err.Error() }

func (m *marked) Unwrap() []error { return []error{m.err, m.sentinel} }

// Cause lets cockroachdb's single-chain walkers reach err.
func (m *marked) Cause() error { return m.err }

func (m *marked) Is(target error) bool { return target == m.sentinel }

// ExitError carries the exit code for an error and a suggestion printed
// under it.
type ExitError struct {
	Err        error
	Code       int
	Suggestion string
}

func exitError(code int, err error, suggestion string) *ExitError {
	return &ExitError{Err: err, Code: code, Suggestion: suggestion}
}

// NewUserError classifies err as the user's to fix.
func NewUserError(err error, suggestion string) *ExitError {
	return exitError(ExitUser, err, suggestion)
}

// NewSystemError classifies err as an environment failure.
func NewSystemError(err error, suggestion string) *ExitError {
	return exitError(ExitSystem, err, suggestion)
}

// NewConfigError classifies a settings failure and points at the file.
func NewConfigError(err error) *ExitError {
	return exitError(ExitUser, err, "Run: cfgsync config path")
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return "exit status " + strconv.Itoa(e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps err to a process exit code: nil is ExitSuccess, the
// outermost ExitError decides, and anything else is ExitSystem.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitSystem
}

// Suggestion returns the first non-empty suggestion in err's chain.
func Suggestion(err error) string {
	for err != nil {
		var exitErr *ExitError
		if !As(err, &exitErr) {
			return ""
		}
		if exitErr.Suggestion != "" {
			return exitErr.Suggestion
		}
		err = exitErr.Err
	}
	return ""
}
