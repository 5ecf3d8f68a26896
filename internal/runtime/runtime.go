// Package runtime defines the container lifecycle interface for
// browserbox-ctl. The harness treats the container under test as a black
// box behind this interface; the abstraction also enables testing the run
// flow without a container engine.
package runtime

import (
	"context"
)

// ContainerState represents the runtime state of a container
type ContainerState string

const (
	StateRunning  ContainerState = "running"
	StateExited   ContainerState = "exited"
	StateCreated  ContainerState = "created"
	StateNotFound ContainerState = "not-found"
	StateUnknown  ContainerState = "unknown"
)

// HealthStatus is the composite health signal reported by the container's
// own healthcheck, distinct from the harness's per-subsystem probes.
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
	HealthStarting  HealthStatus = "starting"
	HealthNone      HealthStatus = "none"
)

// ContainerStatus is a point-in-time view of a container.
type ContainerStatus struct {
	Name      string
	State     ContainerState
	Health    HealthStatus
	StartedAt string
}

// ExecResult holds the result of executing a command in a container
type ExecResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// PortBinding maps a host port to a container port.
type PortBinding struct {
	Host      int
	Container int
}

// StartOptions holds the resource grants and bindings for the container
// under test.
type StartOptions struct {
	Name    string
	Image   string
	ShmSize string
	CapAdd  []string
	Ports   []PortBinding
}

// Runtime is the interface that container backends must implement.
// All methods should be safe for concurrent use.
type Runtime interface {
	// Name returns the runtime identifier (e.g., "docker", "podman")
	Name() string

	// ImageExists reports whether the image is available locally
	ImageExists(ctx context.Context, image string) (bool, error)

	// Start creates and starts the container. No retry: callers treat a
	// failure here as fatal.
	Start(ctx context.Context, opts StartOptions) error

	// Status returns a non-blocking point-in-time view of a container
	Status(ctx context.Context, name string) (*ContainerStatus, error)

	// Exec executes a command inside a container. A non-zero exit code is
	// reported in the result, not as an error.
	Exec(ctx context.Context, name string, command []string) (*ExecResult, error)

	// Logs returns the last tail lines of the container's output.
	// Diagnostics only; never used for control decisions.
	Logs(ctx context.Context, name string, tail int) (string, error)

	// Stop stops a running container
	Stop(ctx context.Context, name string) error

	// Remove removes a container
	Remove(ctx context.Context, name string) error
}
