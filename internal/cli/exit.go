package cli

import "errors"

// exitCodeError lets a subcommand report a specific process exit code
// (2 for "ran fine but the result fails validation") distinct from the
// generic 1 cobra already uses for usage/runtime errors.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }

func failCheck(err error) error {
	return &exitCodeError{code: 2, err: err}
}

// ExitCode extracts the process exit code a command error should
// produce: 2 when the command deliberately flagged a failed check, 1 for
// any other error, 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ec *exitCodeError
	if errors.As(err, &ec) {
		return ec.code
	}
	return 1
}
