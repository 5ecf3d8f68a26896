package harness

import (
	"context"
	"time"

	"github.com/glimmerlab/browserbox-ctl/internal/config"
	"github.com/glimmerlab/browserbox-ctl/internal/errors"
	"github.com/glimmerlab/browserbox-ctl/internal/logging"
	"github.com/glimmerlab/browserbox-ctl/internal/probe"
	"github.com/glimmerlab/browserbox-ctl/internal/report"
	"github.com/glimmerlab/browserbox-ctl/internal/runtime"
)

// Harness drives one verification run: lifecycle start, composite health
// wait, the independent probes, and the guaranteed teardown.
type Harness struct {
	cfg      *config.Config
	rt       runtime.Runtime
	reporter *report.Reporter
	keep     bool
	tornDown bool
}

// Option configures a Harness.
type Option func(*Harness)

// WithReporter sets the output reporter.
func WithReporter(r *report.Reporter) Option {
	return func(h *Harness) {
		h.reporter = r
	}
}

// WithKeep leaves the container running after the run, for debugging.
func WithKeep(keep bool) Option {
	return func(h *Harness) {
		h.keep = keep
	}
}

// New creates a Harness for one run.
func New(cfg *config.Config, rt runtime.Runtime, opts ...Option) *Harness {
	h := &Harness{
		cfg:      cfg,
		rt:       rt,
		reporter: report.NewReporter(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes the full verification sequence and returns the probe
// summary. A non-nil error is a fatal abort or the probes-failed verdict;
// either way teardown has already run.
func (h *Harness) Run(ctx context.Context) (*report.Summary, error) {
	summary := report.NewSummary()

	// Teardown is registered before any external state is touched and
	// fires on every exit path, including interrupts surfacing as
	// context cancellation.
	defer h.teardown()

	// Step 1: the target image must exist; probing an absent target is
	// meaningless.
	h.reporter.Step("Checking image %s", h.cfg.Image)
	imageResult := h.checkImage(ctx)
	summary.Record(imageResult)
	h.reporter.ProbeResult(imageResult)
	if !imageResult.Passed {
		return summary, errors.ImageNotFound(h.cfg.Image)
	}

	// Step 2: start the container with its grants and bindings.
	h.reporter.Step("Starting container %s", h.cfg.ContainerName)
	if err := h.rt.Start(ctx, h.startOptions()); err != nil {
		h.reporter.Fatal("container failed to start", "")
		return summary, errors.StartFailed(h.cfg.ContainerName, err)
	}

	// Step 3: gate on the composite health signal.
	h.reporter.Step("Waiting for healthy status (deadline %s)", h.cfg.HealthDeadline.Duration)
	outcome := waitForHealthy(ctx, h.rt, h.cfg.ContainerName, h.cfg.PollInterval.Duration, h.cfg.HealthDeadline.Duration)
	switch outcome {
	case WaitHealthy:
		h.reporter.Step("Container reported healthy")
	case WaitExited:
		logs := h.captureLogs(ctx)
		h.reporter.Fatal("container exited before becoming healthy", logs)
		h.writeArtifact("container-logs", logs)
		return summary, errors.ContainerExited(h.cfg.ContainerName)
	case WaitTimedOut:
		logs := h.captureLogs(ctx)
		h.reporter.Fatal("health wait timed out", logs)
		h.writeArtifact("container-logs", logs)
		return summary, errors.HealthTimeout(h.cfg.ContainerName, int(h.cfg.HealthDeadline.Duration.Seconds()))
	case WaitCancelled:
		return summary, errors.Wrap(errors.ExitFailure, "verification interrupted", ctx.Err())
	}

	// Step 4: composite health can report before secondary listeners
	// finish binding; give them a moment.
	sleep(ctx, h.cfg.GraceDelay.Duration)

	// Step 5: the independent probes. Subsystems are siloed, so a failure
	// is recorded and the run continues.
	for _, p := range h.probes() {
		result := p.Run(ctx)
		summary.Record(result)
		h.reporter.ProbeResult(result)
		if !result.Passed && result.Diagnostic != "" {
			h.writeArtifact(result.Name, result.Diagnostic)
		}
	}

	// Step 6: render and return the verdict.
	h.reporter.Summary(summary)
	if !summary.OK() {
		return summary, errors.ProbesFailed(summary.Failed)
	}
	return summary, nil
}

// checkImage runs the image-presence gate as a recorded probe result.
func (h *Harness) checkImage(ctx context.Context) probe.Result {
	start := time.Now()
	exists, err := h.rt.ImageExists(ctx, h.cfg.Image)

	result := probe.Result{
		Name:     "image-present",
		Passed:   err == nil && exists,
		Elapsed:  time.Since(start),
		Attempts: 1,
	}
	if err != nil {
		result.Diagnostic = err.Error()
	}
	return result
}

// startOptions translates config into the runtime's start contract.
func (h *Harness) startOptions() runtime.StartOptions {
	return runtime.StartOptions{
		Name:    h.cfg.ContainerName,
		Image:   h.cfg.Image,
		ShmSize: h.cfg.ShmSize,
		CapAdd:  h.cfg.CapAdd,
		Ports: []runtime.PortBinding{
			{Host: h.cfg.ControlPort.Host, Container: h.cfg.ControlPort.Container},
			{Host: h.cfg.BridgePort.Host, Container: h.cfg.BridgePort.Container},
		},
	}
}

// probes builds the five independent subsystem checks.
func (h *Harness) probes() []probe.Probe {
	cfg := h.cfg
	name := cfg.ContainerName

	return []probe.Probe{
		probe.ExecZero("binary-sanity", h.rt, name, []string{cfg.BrowserBinary, "--version"}),
		probe.HTTPGet("control-endpoint", cfg.ControlURL(), 3, cfg.RetryDelay.Duration, cfg.HTTPTimeout.Duration),
		probe.HTTPGet("bridge-endpoint", cfg.BridgeURL(), 1, 0, cfg.HTTPTimeout.Duration),
		probe.ProcessPresent("browser-process", h.rt, name, cfg.BrowserProcess),
		probe.ProcessPresent("display-process", h.rt, name, cfg.DisplayProcess),
	}
}

// captureLogs fetches recent container output for a fatal diagnostic.
// Uses a fresh context: the run context may already be cancelled.
func (h *Harness) captureLogs(ctx context.Context) string {
	logsCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	logs, err := h.rt.Logs(logsCtx, h.cfg.ContainerName, h.cfg.LogTail)
	if err != nil {
		logging.Warn("failed to capture container logs", "error", err)
		return ""
	}
	return logs
}

// teardown stops and removes the container exactly once per run.
// Errors are swallowed: cleanup must never mask the run's true result.
func (h *Harness) teardown() {
	if h.tornDown {
		return
	}
	h.tornDown = true

	if h.keep {
		logging.UserWarning("Teardown skipped (--keep): container %s left running", h.cfg.ContainerName)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logging.Debug("tearing down container", "name", h.cfg.ContainerName)
	if err := h.rt.Stop(ctx, h.cfg.ContainerName); err != nil {
		logging.Debug("container stop during teardown", "error", err)
	}
	if err := h.rt.Remove(ctx, h.cfg.ContainerName); err != nil {
		logging.Debug("container remove during teardown", "error", err)
	}
}
