package harness

import (
	"context"
	"time"

	"github.com/glimmerlab/browserbox-ctl/internal/logging"
	"github.com/glimmerlab/browserbox-ctl/internal/runtime"
)

// WaitOutcome is the terminal state of the composite health wait.
type WaitOutcome int

const (
	// WaitHealthy means the container reported healthy before the deadline.
	WaitHealthy WaitOutcome = iota

	// WaitExited means the container stopped running before reporting
	// healthy. Fatal: there is nothing left to probe.
	WaitExited

	// WaitTimedOut means the deadline elapsed with the container still
	// starting.
	WaitTimedOut

	// WaitCancelled means the context was cancelled during the wait.
	WaitCancelled
)

func (o WaitOutcome) String() string {
	switch o {
	case WaitHealthy:
		return "healthy"
	case WaitExited:
		return "exited"
	case WaitTimedOut:
		return "timed-out"
	case WaitCancelled:
		return "cancelled"
	}
	return "unknown"
}

// waitForHealthy polls the container's composite health status until it
// reports healthy, the container exits, or the deadline elapses. The
// in-container supervisor reports readiness at indeterminate delay, so a
// bounded poll is the only sound gate: probing earlier gives false
// failures, waiting unbounded hangs the run.
func waitForHealthy(ctx context.Context, rt runtime.Runtime, name string, interval, deadline time.Duration) WaitOutcome {
	start := time.Now()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := rt.Status(ctx, name)
		if err != nil {
			// Transient inspect failures don't fail the wait; the
			// deadline bounds them.
			logging.Warn("health poll failed", "container", name, "error", err)
		} else {
			logging.Debug("health poll",
				"container", name,
				"state", status.State,
				"health", status.Health,
				"elapsed", time.Since(start).Round(time.Millisecond))

			switch {
			case status.Health == runtime.HealthHealthy:
				return WaitHealthy
			case status.State == runtime.StateExited || status.State == runtime.StateNotFound:
				return WaitExited
			}
		}

		if time.Since(start) >= deadline {
			return WaitTimedOut
		}

		select {
		case <-ctx.Done():
			return WaitCancelled
		case <-ticker.C:
		}
	}
}

// sleep pauses for d unless the context is cancelled first.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
