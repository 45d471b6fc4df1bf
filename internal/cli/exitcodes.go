package cli

import (
	"errors"
	"fmt"

	"github.com/yaklabco/gojanitor/pkg/runner"
)

// Exit codes for gojanitor.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitChangesPending indicates check mode found files that would change.
	ExitChangesPending = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 2

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 3

	// ExitIOError indicates file I/O or processing errors.
	ExitIOError = 4
)

var (
	// ErrChangesPending is returned by check when files would change.
	ErrChangesPending = errors.New("changes pending")

	// ErrFilesFailed is returned when one or more files could not be
	// processed.
	ErrFilesFailed = errors.New("one or more files could not be processed")
)

// ExitError carries the process exit code for an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

func usageError(format string, args ...any) error {
	return withExitCode(ExitInvalidUsage, fmt.Errorf(format, args...))
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitIOError
}

// ExitCodeFromResult determines the exit code for a run. File failures
// win over pending changes; pending changes only count in check mode.
func ExitCodeFromResult(result *runner.Result, check bool) int {
	if result == nil {
		return ExitSuccess
	}
	if result.HasErrors() || len(result.Errors) > 0 {
		return ExitIOError
	}
	if check && result.HasChanges() {
		return ExitChangesPending
	}
	return ExitSuccess
}

// resultError converts a run result into the error the command returns.
func resultError(result *runner.Result, check bool) error {
	switch code := ExitCodeFromResult(result, check); code {
	case ExitIOError:
		return withExitCode(code, ErrFilesFailed)
	case ExitChangesPending:
		return withExitCode(code, ErrChangesPending)
	default:
		return nil
	}
}
