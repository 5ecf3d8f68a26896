package probe

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/glimmerlab/browserbox-ctl/internal/runtime"
)

func TestExecZero(t *testing.T) {
	tests := []struct {
		name     string
		result   *runtime.ExecResult
		wantPass bool
	}{
		{"zero exit", &runtime.ExecResult{ExitCode: 0, Stdout: "Chromium 126.0\n"}, true},
		{"non-zero exit", &runtime.ExecResult{ExitCode: 127, Stderr: "chromium: not found"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := runtime.NewMockRuntime()
			rt.SetExecResult("chromium --version", tt.result)

			p := ExecZero("binary-sanity", rt, "browserbox-verify", []string{"chromium", "--version"})
			result := p.Run(context.Background())

			if result.Passed != tt.wantPass {
				t.Errorf("Passed = %v, want %v (diagnostic: %s)", result.Passed, tt.wantPass, result.Diagnostic)
			}
		})
	}
}

func TestExecZero_TransportErrorIsFailure(t *testing.T) {
	rt := runtime.NewMockRuntime()
	rt.SetError("Exec", errors.New("container not running"))

	p := ExecZero("binary-sanity", rt, "browserbox-verify", []string{"chromium", "--version"})
	result := p.Run(context.Background())

	if result.Passed {
		t.Error("exec transport error should fail the probe, not abort")
	}
	if !strings.Contains(result.Diagnostic, "container not running") {
		t.Errorf("Diagnostic = %q", result.Diagnostic)
	}
}

func TestProcessPresent(t *testing.T) {
	rt := runtime.NewMockRuntime()
	rt.SetExecResult("pgrep -f chromium", &runtime.ExecResult{ExitCode: 0, Stdout: "17\n"})
	rt.SetExecResult("pgrep -f Xvfb", &runtime.ExecResult{ExitCode: 1})

	browser := ProcessPresent("browser-process", rt, "browserbox-verify", "chromium")
	if result := browser.Run(context.Background()); !result.Passed {
		t.Errorf("browser process probe should pass: %s", result.Diagnostic)
	}

	display := ProcessPresent("display-process", rt, "browserbox-verify", "Xvfb")
	if result := display.Run(context.Background()); result.Passed {
		t.Error("display process probe should fail when pgrep exits non-zero")
	}
}
