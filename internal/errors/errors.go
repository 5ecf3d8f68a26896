package errors

import (
	"errors"
	"fmt"
)

// Exit codes for browserbox-ctl. The verification contract is binary:
// automation keys off zero vs non-zero only.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// HarnessError is the base error type for browserbox-ctl
type HarnessError struct {
	Code    int
	Message string
	Cause   error
}

func (e *HarnessError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *HarnessError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *HarnessError) ExitCode() int {
	return e.Code
}

// New creates a new HarnessError
func New(code int, message string) *HarnessError {
	return &HarnessError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a HarnessError
func Wrap(code int, message string, cause error) *HarnessError {
	return &HarnessError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors for the fatal-abort classes.

// ImageNotFound returns an error for a missing container image
func ImageNotFound(image string) *HarnessError {
	return New(ExitFailure, fmt.Sprintf("image not found: %s", image))
}

// StartFailed returns an error for a container launch failure
func StartFailed(name string, cause error) *HarnessError {
	return Wrap(ExitFailure, fmt.Sprintf("container %s failed to start", name), cause)
}

// ContainerExited returns an error for a container that exited before
// reporting healthy
func ContainerExited(name string) *HarnessError {
	return New(ExitFailure, fmt.Sprintf("container %s exited before becoming healthy", name))
}

// HealthTimeout returns an error for a health wait that hit its deadline
func HealthTimeout(name string, seconds int) *HarnessError {
	return New(ExitFailure, fmt.Sprintf("container %s did not report healthy within %ds", name, seconds))
}

// ProbesFailed returns an error summarizing failed probes
func ProbesFailed(failed int) *HarnessError {
	return New(ExitFailure, fmt.Sprintf("%d probe(s) failed", failed))
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *HarnessError {
	return Wrap(ExitFailure, message, cause)
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *HarnessError {
	return New(ExitFailure, message)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var harnessErr *HarnessError
	if errors.As(err, &harnessErr) {
		return harnessErr.ExitCode()
	}
	return ExitFailure
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
