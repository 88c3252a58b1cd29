// Package errors is the single errors import for cfgsync.
//
// It re-exports the helpers of github.com/cockroachdb/errors, defines the
// sentinels shared across packages, and classifies failures for the CLI:
// commands return an [ExitError] built with [NewUserError],
// [NewSystemError] or [NewConfigError], and main exits with [ExitCode].
//
//	if errors.Is(err, os.ErrNotExist) {
//		return errors.NewUserError(err, "Check the schema path")
//	}
//
// Exit codes are 0 for success, 1 for problems the user fixes (arguments,
// schemas, settings, config files) and 2 for everything else.
package errors
