// Package system provides abstractions for OS operations to enable testing.
package system

import (
	"context"
)

// CommandResult holds the captured output of a completed command.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandExecutor abstracts command execution for testability.
type CommandExecutor interface {
	// Execute runs a command and returns its combined output.
	Execute(ctx context.Context, name string, args ...string) ([]byte, error)

	// ExecuteDetailed runs a command and captures stdout and stderr
	// separately along with the process exit code. A non-zero exit code
	// is reported in the result, not as an error; errors are reserved for
	// failures to run the command at all.
	ExecuteDetailed(ctx context.Context, name string, args ...string) (*CommandResult, error)
}

// Default instance using real OS operations.
var defaultExecutor CommandExecutor = &osExecutor{}

// DefaultExecutor returns the default CommandExecutor implementation.
func DefaultExecutor() CommandExecutor {
	return defaultExecutor
}

// SetDefaultExecutor sets the default CommandExecutor (useful for testing).
func SetDefaultExecutor(exec CommandExecutor) {
	defaultExecutor = exec
}

// ResetDefaults restores the default OS implementation.
func ResetDefaults() {
	defaultExecutor = &osExecutor{}
}
