package cli

import (
	"github.com/moqui-tools/moquilint/internal/cli/shared"
)

// Exit codes for the moquilint CLI (re-exported from shared)
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates a clean run
	ExitSuccess = shared.ExitSuccess

	// ExitFindings indicates findings at or above the fail-on threshold,
	// or files that are not canonical under fmt --check
	ExitFindings = shared.ExitFindings

	// ExitRunError indicates the run itself failed
	ExitRunError = shared.ExitRunError

	// ExitInvalidArguments indicates invalid command arguments or config
	ExitInvalidArguments = shared.ExitInvalidArguments
)

// NewExitError creates a new exit error with the given code (re-exported from shared).
func NewExitError(code int) error {
	return shared.NewExitError(code)
}

// ExitCode returns the exit code from an error (re-exported from shared).
func ExitCode(err error) int {
	return shared.ExitCode(err)
}
