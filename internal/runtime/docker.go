package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/glimmerlab/browserbox-ctl/internal/logging"
	"github.com/glimmerlab/browserbox-ctl/internal/system"
)

// DockerRuntime implements the Runtime interface using Docker or Podman.
// It auto-detects which container engine is available.
type DockerRuntime struct {
	// Command is the container command to use (docker or podman)
	Command string

	// Executor runs the engine CLI; swappable for tests.
	Executor system.CommandExecutor
}

// NewDockerRuntime creates a new Docker/Podman runtime.
// It auto-detects which command is available.
func NewDockerRuntime() (*DockerRuntime, error) {
	if _, err := exec.LookPath("docker"); err == nil {
		return &DockerRuntime{Command: "docker", Executor: system.DefaultExecutor()}, nil
	}

	if _, err := exec.LookPath("podman"); err == nil {
		return &DockerRuntime{Command: "podman", Executor: system.DefaultExecutor()}, nil
	}

	return nil, fmt.Errorf("neither docker nor podman found in PATH")
}

// Name returns the runtime identifier
func (r *DockerRuntime) Name() string {
	return r.Command
}

// runCmd executes an engine command, treating any non-zero exit as an error.
func (r *DockerRuntime) runCmd(ctx context.Context, args ...string) (string, error) {
	logging.Debug("running engine command", "cmd", shellquote.Join(append([]string{r.Command}, args...)...))

	result, err := r.Executor.ExecuteDetailed(ctx, r.Command, args...)
	if err != nil {
		return "", fmt.Errorf("%s %s failed: %w", r.Command, args[0], err)
	}
	if result.ExitCode != 0 {
		return "", fmt.Errorf("%s %s failed: %s", r.Command, args[0], strings.TrimSpace(result.Stderr))
	}

	return result.Stdout, nil
}

// ImageExists reports whether the image is available locally
func (r *DockerRuntime) ImageExists(ctx context.Context, image string) (bool, error) {
	result, err := r.Executor.ExecuteDetailed(ctx, r.Command, "image", "inspect", image)
	if err != nil {
		return false, fmt.Errorf("%s image inspect failed: %w", r.Command, err)
	}
	return result.ExitCode == 0, nil
}

// Start creates and starts the container under test
func (r *DockerRuntime) Start(ctx context.Context, opts StartOptions) error {
	args := []string{"run", "-d", "--name", opts.Name}

	if opts.ShmSize != "" {
		args = append(args, "--shm-size", opts.ShmSize)
	}

	for _, grant := range opts.CapAdd {
		logging.Info("applying capability grant", "cap", grant, "container", opts.Name)
		args = append(args, "--cap-add", grant)
	}

	for _, pb := range opts.Ports {
		args = append(args, "-p", fmt.Sprintf("%d:%d", pb.Host, pb.Container))
	}

	args = append(args, opts.Image)

	logging.Debug("starting container", "name", opts.Name, "image", opts.Image, "runtime", r.Command)

	_, err := r.runCmd(ctx, args...)
	return err
}

// dockerInspect holds the relevant fields from docker inspect
type dockerInspect struct {
	State struct {
		Status    string `json:"Status"`
		Running   bool   `json:"Running"`
		StartedAt string `json:"StartedAt"`
		Health    *struct {
			Status string `json:"Status"`
		} `json:"Health"`
	} `json:"State"`
}

// Status returns a point-in-time view of a container
func (r *DockerRuntime) Status(ctx context.Context, name string) (*ContainerStatus, error) {
	status := &ContainerStatus{
		Name:   name,
		State:  StateNotFound,
		Health: HealthNone,
	}

	result, err := r.Executor.ExecuteDetailed(ctx, r.Command, "inspect", name)
	if err != nil {
		return nil, fmt.Errorf("%s inspect failed: %w", r.Command, err)
	}
	if result.ExitCode != 0 {
		return status, nil
	}

	var inspects []dockerInspect
	if err := json.Unmarshal([]byte(result.Stdout), &inspects); err != nil || len(inspects) == 0 {
		return status, nil
	}

	inspect := inspects[0]
	switch inspect.State.Status {
	case "running":
		status.State = StateRunning
	case "exited", "stopped", "dead":
		status.State = StateExited
	case "created":
		status.State = StateCreated
	default:
		status.State = StateUnknown
	}

	if inspect.State.Health != nil {
		switch inspect.State.Health.Status {
		case "healthy":
			status.Health = HealthHealthy
		case "unhealthy":
			status.Health = HealthUnhealthy
		case "starting":
			status.Health = HealthStarting
		default:
			status.Health = HealthNone
		}
	}

	status.StartedAt = inspect.State.StartedAt

	return status, nil
}

// Exec executes a command inside a container
func (r *DockerRuntime) Exec(ctx context.Context, name string, command []string) (*ExecResult, error) {
	args := append([]string{"exec", name}, command...)

	logging.Debug("exec in container", "container", name, "cmd", shellquote.Join(command...))

	result, err := r.Executor.ExecuteDetailed(ctx, r.Command, args...)
	if err != nil {
		return nil, fmt.Errorf("exec failed: %w", err)
	}

	return &ExecResult{
		ExitCode: result.ExitCode,
		Stdout:   result.Stdout,
		Stderr:   result.Stderr,
	}, nil
}

// Logs returns the last tail lines of the container's output
func (r *DockerRuntime) Logs(ctx context.Context, name string, tail int) (string, error) {
	result, err := r.Executor.ExecuteDetailed(ctx, r.Command, "logs", "--tail", strconv.Itoa(tail), name)
	if err != nil {
		return "", fmt.Errorf("%s logs failed: %w", r.Command, err)
	}
	if result.ExitCode != 0 {
		return "", fmt.Errorf("%s logs failed: %s", r.Command, strings.TrimSpace(result.Stderr))
	}

	// The engine splits container stdout/stderr across its own streams.
	return result.Stdout + result.Stderr, nil
}

// Stop stops a running container
func (r *DockerRuntime) Stop(ctx context.Context, name string) error {
	logging.Debug("stopping container", "container", name)

	_, err := r.runCmd(ctx, "stop", "-t", "5", name)
	return err
}

// Remove removes a container
func (r *DockerRuntime) Remove(ctx context.Context, name string) error {
	logging.Debug("removing container", "container", name)

	_, err := r.runCmd(ctx, "rm", "-f", name)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "no such container") {
		return nil
	}
	return err
}

// Ensure DockerRuntime implements Runtime
var _ Runtime = (*DockerRuntime)(nil)
