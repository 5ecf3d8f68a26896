package probe

import (
	"context"
	"fmt"
	"strings"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/glimmerlab/browserbox-ctl/internal/runtime"
)

// ExecZero returns a probe that passes when the command exits zero inside
// the container. Exec transport errors fail the probe like any non-zero
// exit; nothing here aborts the run.
func ExecZero(name string, rt runtime.Runtime, container string, command []string) Probe {
	return Probe{
		Name: name,
		Check: func(ctx context.Context) error {
			result, err := rt.Exec(ctx, container, command)
			if err != nil {
				return err
			}
			if result.ExitCode != 0 {
				msg := strings.TrimSpace(result.Stderr)
				if msg == "" {
					msg = strings.TrimSpace(result.Stdout)
				}
				if msg == "" {
					return fmt.Errorf("%s: exit code %d", shellquote.Join(command...), result.ExitCode)
				}
				return fmt.Errorf("%s: exit code %d: %s", shellquote.Join(command...), result.ExitCode, msg)
			}
			return nil
		},
	}
}

// ProcessPresent returns a probe that passes when a process matching
// pattern is running inside the container.
func ProcessPresent(name string, rt runtime.Runtime, container, pattern string) Probe {
	return ExecZero(name, rt, container, []string{"pgrep", "-f", pattern})
}
