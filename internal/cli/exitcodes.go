package cli

import (
	"errors"

	"github.com/flintlabs/pyflint/internal/configloader"
	"github.com/flintlabs/pyflint/pkg/runner"
)

// Exit codes for pyflint.
const (
	// ExitSuccess indicates successful execution with no issues.
	ExitSuccess = 0

	// ExitIssues indicates the check completed and found issues.
	ExitIssues = 1

	// ExitUsageError indicates invalid command-line usage or configuration.
	ExitUsageError = 2

	// ExitInternalError indicates an internal error.
	ExitInternalError = 3
)

// ErrIssuesFound signals the exit code path that issues were reported.
// It is never logged as a failure.
var ErrIssuesFound = errors.New("issues found")

// ErrUsage marks errors caused by invalid flags or configuration.
var ErrUsage = errors.New("usage error")

// ExitCodeFromResult determines the exit code based on result and strict mode.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	errorCount := result.Stats.DiagnosticsBySeverity["error"]
	warnings := result.Stats.DiagnosticsBySeverity["warning"]

	if errorCount > 0 {
		return ExitIssues
	}

	if strict && warnings > 0 {
		return ExitIssues
	}

	return ExitSuccess
}

// ExitCodeFromError maps a command error to a process exit code.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, ErrIssuesFound) {
		return ExitIssues
	}

	var validationErr *configloader.ValidationError
	if errors.Is(err, ErrUsage) || errors.As(err, &validationErr) {
		return ExitUsageError
	}

	return ExitInternalError
}
