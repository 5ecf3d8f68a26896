package harness

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/glimmerlab/browserbox-ctl/internal/config"
	"github.com/glimmerlab/browserbox-ctl/internal/report"
	"github.com/glimmerlab/browserbox-ctl/internal/runtime"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Image = "browserbox:test"
	cfg.PollInterval = config.Duration{Duration: 5 * time.Millisecond}
	cfg.HealthDeadline = config.Duration{Duration: 500 * time.Millisecond}
	cfg.GraceDelay = config.Duration{Duration: time.Millisecond}
	cfg.RetryDelay = config.Duration{Duration: time.Millisecond}
	cfg.HTTPTimeout = config.Duration{Duration: time.Second}
	return cfg
}

func testReporter() *report.Reporter {
	return &report.Reporter{Out: &bytes.Buffer{}, Err: &bytes.Buffer{}}
}

// serveEndpoints points both probed ports at one httptest server.
func serveEndpoints(t *testing.T, cfg *config.Config) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatal(err)
	}

	cfg.ControlPort.Host = port
	cfg.BridgePort.Host = port
}

// healthyRuntime returns a mock where the container reports healthy on the
// second poll and every exec probe passes.
func healthyRuntime(cfg *config.Config) *runtime.MockRuntime {
	rt := runtime.NewMockRuntime()
	rt.AddImage(cfg.Image)
	rt.SetStatus(cfg.ContainerName, runtime.StateRunning, runtime.HealthHealthy)
	rt.ScriptStatus(cfg.ContainerName, runtime.StateRunning, runtime.HealthStarting)
	return rt
}

func assertTeardownOnce(t *testing.T, rt *runtime.MockRuntime) {
	t.Helper()
	if got := len(rt.CallsFor("Stop")); got != 1 {
		t.Errorf("Stop called %d times, want exactly 1", got)
	}
	if got := len(rt.CallsFor("Remove")); got != 1 {
		t.Errorf("Remove called %d times, want exactly 1", got)
	}
}

func TestRun_AllProbesPass(t *testing.T) {
	cfg := testConfig(t)
	serveEndpoints(t, cfg)
	rt := healthyRuntime(cfg)

	h := New(cfg, rt, WithReporter(testReporter()))
	summary, err := h.Run(context.Background())

	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Passed != 6 || summary.Failed != 0 {
		t.Errorf("summary = %d passed / %d failed, want 6/0", summary.Passed, summary.Failed)
	}
	if summary.Passed+summary.Failed != summary.Total() {
		t.Error("passed + failed must equal total")
	}
	if got := len(rt.CallsFor("Start")); got != 1 {
		t.Errorf("Start called %d times, want 1", got)
	}
	assertTeardownOnce(t, rt)
}

func TestRun_ImageAbsent(t *testing.T) {
	cfg := testConfig(t)
	rt := runtime.NewMockRuntime()

	h := New(cfg, rt, WithReporter(testReporter()))
	summary, err := h.Run(context.Background())

	if err == nil {
		t.Fatal("Run() should fail when the image is absent")
	}
	if got := len(rt.CallsFor("Start")); got != 0 {
		t.Errorf("Start called %d times for an absent image, want 0", got)
	}
	if got := len(rt.CallsFor("Exec")); got != 0 {
		t.Errorf("Exec called %d times, want 0: no probes may run", got)
	}
	if summary.Failed != 1 || summary.FailedNames[0] != "image-present" {
		t.Errorf("summary should carry only the failed image gate, got %+v", summary.FailedNames)
	}
	// Teardown is still attempted exactly once, idempotently.
	assertTeardownOnce(t, rt)
}

func TestRun_StartFailure(t *testing.T) {
	cfg := testConfig(t)
	rt := runtime.NewMockRuntime()
	rt.AddImage(cfg.Image)
	rt.SetError("Start", errors.New("port is already allocated"))

	h := New(cfg, rt, WithReporter(testReporter()))
	_, err := h.Run(context.Background())

	if err == nil {
		t.Fatal("Run() should fail when the container cannot start")
	}
	if got := len(rt.CallsFor("Status")); got != 0 {
		t.Errorf("Status called %d times after start failure, want 0", got)
	}
	assertTeardownOnce(t, rt)
}

func TestRun_ContainerExited(t *testing.T) {
	cfg := testConfig(t)
	rt := runtime.NewMockRuntime()
	rt.AddImage(cfg.Image)
	rt.SetStatus(cfg.ContainerName, runtime.StateExited, runtime.HealthNone)
	rt.LogsText = "chromium: cannot open display :99\n"

	h := New(cfg, rt, WithReporter(testReporter()))
	summary, err := h.Run(context.Background())

	if err == nil {
		t.Fatal("Run() should fail when the container exits during the wait")
	}
	if got := len(rt.CallsFor("Exec")); got != 0 {
		t.Errorf("Exec called %d times after fatal exit, want 0: probes must not run", got)
	}
	if got := len(rt.CallsFor("Logs")); got != 1 {
		t.Errorf("Logs called %d times, want 1 diagnostic capture", got)
	}
	if summary.Total() != 1 {
		t.Errorf("summary.Total() = %d, want 1 (only the image gate ran)", summary.Total())
	}
	assertTeardownOnce(t, rt)
}

func TestRun_HealthTimeout(t *testing.T) {
	cfg := testConfig(t)
	cfg.HealthDeadline = config.Duration{Duration: 40 * time.Millisecond}
	rt := runtime.NewMockRuntime()
	rt.AddImage(cfg.Image)
	rt.SetStatus(cfg.ContainerName, runtime.StateRunning, runtime.HealthStarting)

	h := New(cfg, rt, WithReporter(testReporter()))

	start := time.Now()
	_, err := h.Run(context.Background())
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("Run() should fail when health never reports")
	}
	if elapsed < cfg.HealthDeadline.Duration {
		t.Errorf("run returned after %v, before the %v deadline", elapsed, cfg.HealthDeadline.Duration)
	}
	if got := len(rt.CallsFor("Exec")); got != 0 {
		t.Errorf("Exec called %d times after timeout, want 0", got)
	}
	assertTeardownOnce(t, rt)
}

func TestRun_InterruptDuringWait(t *testing.T) {
	cfg := testConfig(t)
	cfg.HealthDeadline = config.Duration{Duration: 10 * time.Second}
	rt := runtime.NewMockRuntime()
	rt.AddImage(cfg.Image)
	rt.SetStatus(cfg.ContainerName, runtime.StateRunning, runtime.HealthStarting)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	h := New(cfg, rt, WithReporter(testReporter()))

	start := time.Now()
	_, err := h.Run(ctx)

	if err == nil {
		t.Fatal("Run() should fail on interrupt")
	}
	if time.Since(start) > 2*time.Second {
		t.Error("interrupt should unblock the health wait promptly")
	}
	assertTeardownOnce(t, rt)
}

func TestRun_ProbeFailureDoesNotAbort(t *testing.T) {
	cfg := testConfig(t)
	serveEndpoints(t, cfg)
	rt := healthyRuntime(cfg)
	rt.SetExecResult("pgrep -f Xvfb", &runtime.ExecResult{ExitCode: 1})

	h := New(cfg, rt, WithReporter(testReporter()))
	summary, err := h.Run(context.Background())

	if err == nil {
		t.Fatal("Run() should report failure when a probe fails")
	}
	if summary.Passed != 5 || summary.Failed != 1 {
		t.Errorf("summary = %d/%d, want 5 passed / 1 failed", summary.Passed, summary.Failed)
	}
	if len(summary.FailedNames) != 1 || summary.FailedNames[0] != "display-process" {
		t.Errorf("FailedNames = %v, want [display-process]", summary.FailedNames)
	}
	// All five independent probes must have executed despite the failure.
	if summary.Total() != 6 {
		t.Errorf("Total() = %d, want 6", summary.Total())
	}
	assertTeardownOnce(t, rt)
}

func TestRun_TeardownErrorsSwallowed(t *testing.T) {
	cfg := testConfig(t)
	serveEndpoints(t, cfg)
	rt := healthyRuntime(cfg)
	rt.SetError("Stop", errors.New("stop failed"))
	rt.SetError("Remove", errors.New("remove failed"))

	h := New(cfg, rt, WithReporter(testReporter()))
	_, err := h.Run(context.Background())

	if err != nil {
		t.Errorf("teardown errors must not alter the run result, got %v", err)
	}
}

func TestRun_KeepSkipsTeardown(t *testing.T) {
	cfg := testConfig(t)
	serveEndpoints(t, cfg)
	rt := healthyRuntime(cfg)

	h := New(cfg, rt, WithReporter(testReporter()), WithKeep(true))
	if _, err := h.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := len(rt.CallsFor("Stop")); got != 0 {
		t.Errorf("Stop called %d times with --keep, want 0", got)
	}
	if got := len(rt.CallsFor("Remove")); got != 0 {
		t.Errorf("Remove called %d times with --keep, want 0", got)
	}
}

func TestRun_FailureArtifacts(t *testing.T) {
	cfg := testConfig(t)
	cfg.ArtifactsDir = t.TempDir()
	serveEndpoints(t, cfg)
	rt := healthyRuntime(cfg)
	rt.SetExecResult("pgrep -f chromium", &runtime.ExecResult{ExitCode: 1, Stderr: "no match"})

	h := New(cfg, rt, WithReporter(testReporter()))
	_, _ = h.Run(context.Background())

	data, err := os.ReadFile(filepath.Join(cfg.ArtifactsDir, "browser-process.txt"))
	if err != nil {
		t.Fatalf("expected failure artifact: %v", err)
	}
	if len(data) == 0 {
		t.Error("artifact should carry the diagnostic")
	}
}
