package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestHarnessError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *HarnessError
		wantMsg string
	}{
		{
			name:    "without cause",
			err:     New(ExitFailure, "something went wrong"),
			wantMsg: "something went wrong",
		},
		{
			name:    "with cause",
			err:     Wrap(ExitFailure, "operation failed", fmt.Errorf("underlying error")),
			wantMsg: "operation failed: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestHarnessError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(ExitFailure, "wrapped", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	errNoCause := New(ExitFailure, "no cause")
	if unwrapped := errNoCause.Unwrap(); unwrapped != nil {
		t.Errorf("Unwrap() = %v, want nil", unwrapped)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     *HarnessError
		wantMsg string
	}{
		{"image not found", ImageNotFound("ghcr.io/acme/browserbox:dev"), "image not found: ghcr.io/acme/browserbox:dev"},
		{"container exited", ContainerExited("browserbox-verify"), "container browserbox-verify exited before becoming healthy"},
		{"health timeout", HealthTimeout("browserbox-verify", 120), "container browserbox-verify did not report healthy within 120s"},
		{"probes failed", ProbesFailed(2), "2 probe(s) failed"},
		{"validation", ValidationError("bad name"), "bad name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.wantMsg)
			}
			if tt.err.ExitCode() != ExitFailure {
				t.Errorf("ExitCode() = %d, want %d", tt.err.ExitCode(), ExitFailure)
			}
		})
	}
}

func TestStartFailed(t *testing.T) {
	cause := fmt.Errorf("docker run: exit status 125")
	err := StartFailed("browserbox-verify", cause)

	if !errors.Is(err, cause) {
		t.Error("StartFailed should wrap its cause")
	}
	if err.ExitCode() != ExitFailure {
		t.Errorf("ExitCode() = %d, want %d", err.ExitCode(), ExitFailure)
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"harness error", New(ExitFailure, "boom"), ExitFailure},
		{"wrapped harness error", fmt.Errorf("outer: %w", ImageNotFound("img")), ExitFailure},
		{"plain error", fmt.Errorf("plain"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
