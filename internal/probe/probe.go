package probe

import (
	"context"
	"time"
)

// Probe is a named, idempotent, read-only check against the container
// under test or one of its endpoints.
type Probe struct {
	// Name identifies the probe in results and reports.
	Name string

	// Attempts is the retry budget. Zero means one attempt.
	Attempts int

	// Delay is the pause between attempts.
	Delay time.Duration

	// Check runs one attempt. A nil return is a pass.
	Check func(ctx context.Context) error

	// Diagnose captures extra failure context. Invoked only after the
	// final failed attempt.
	Diagnose func(ctx context.Context) string
}

// Result is the immutable outcome of one probe run.
type Result struct {
	Name       string
	Passed     bool
	Elapsed    time.Duration
	Attempts   int
	Diagnostic string
}

// Run executes the probe within its retry budget. It never panics and
// never returns an error: any failure becomes data in the Result.
func (p Probe) Run(ctx context.Context) Result {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	start := time.Now()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}

		lastErr = p.Check(ctx)
		if lastErr == nil {
			return Result{
				Name:     p.Name,
				Passed:   true,
				Elapsed:  time.Since(start),
				Attempts: attempt,
			}
		}

		if attempt < attempts {
			if !sleep(ctx, p.Delay) {
				break
			}
		}
	}

	result := Result{
		Name:     p.Name,
		Passed:   false,
		Elapsed:  time.Since(start),
		Attempts: attempts,
	}
	if lastErr != nil {
		result.Diagnostic = lastErr.Error()
	}
	if p.Diagnose != nil {
		if extra := p.Diagnose(ctx); extra != "" {
			if result.Diagnostic != "" {
				result.Diagnostic += "\n"
			}
			result.Diagnostic += extra
		}
	}

	return result
}

// sleep pauses for d, returning false if the context was cancelled first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
