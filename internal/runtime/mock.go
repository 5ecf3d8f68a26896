package runtime

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockRuntime is a mock implementation of Runtime for testing
type MockRuntime struct {
	mu sync.RWMutex

	// Images tracks which images exist
	Images map[string]bool

	// Containers tracks the current state of mock containers
	Containers map[string]*ContainerStatus

	// StatusSeq holds scripted Status results per container, consumed one
	// per call before falling back to Containers. Drives the health-wait
	// state machine in tests.
	StatusSeq map[string][]*ContainerStatus

	// ExecResults maps command prefixes (joined with spaces) to results
	ExecResults map[string]*ExecResult

	// LogsText is returned by Logs
	LogsText string

	// Errors allows injecting errors for specific operations
	Errors map[string]error

	// CallLog records all method calls for verification
	CallLog []MockCall
}

// MockCall represents a recorded method call
type MockCall struct {
	Method string
	Args   []interface{}
}

// NewMockRuntime creates a new mock runtime
func NewMockRuntime() *MockRuntime {
	return &MockRuntime{
		Images:      make(map[string]bool),
		Containers:  make(map[string]*ContainerStatus),
		StatusSeq:   make(map[string][]*ContainerStatus),
		ExecResults: make(map[string]*ExecResult),
		Errors:      make(map[string]error),
		CallLog:     make([]MockCall, 0),
	}
}

func (m *MockRuntime) record(method string, args ...interface{}) {
	m.CallLog = append(m.CallLog, MockCall{Method: method, Args: args})
}

// SetError sets an error to be returned for a specific operation
func (m *MockRuntime) SetError(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[operation] = err
}

// AddImage registers an image as present
func (m *MockRuntime) AddImage(image string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Images[image] = true
}

// SetStatus sets the steady-state status for a container
func (m *MockRuntime) SetStatus(name string, state ContainerState, health HealthStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Containers[name] = &ContainerStatus{Name: name, State: state, Health: health}
}

// ScriptStatus appends a scripted Status result for a container
func (m *MockRuntime) ScriptStatus(name string, state ContainerState, health HealthStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatusSeq[name] = append(m.StatusSeq[name], &ContainerStatus{Name: name, State: state, Health: health})
}

// SetExecResult sets the result for exec commands starting with prefix
func (m *MockRuntime) SetExecResult(prefix string, result *ExecResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExecResults[prefix] = result
}

// CallsFor returns all recorded calls for a specific method
func (m *MockRuntime) CallsFor(method string) []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var calls []MockCall
	for _, call := range m.CallLog {
		if call.Method == method {
			calls = append(calls, call)
		}
	}
	return calls
}

// Name returns the runtime identifier
func (m *MockRuntime) Name() string {
	return "mock"
}

// ImageExists reports whether the image was registered via AddImage
func (m *MockRuntime) ImageExists(ctx context.Context, image string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ImageExists", image)

	if err, ok := m.Errors["ImageExists"]; ok {
		return false, err
	}

	return m.Images[image], nil
}

// Start creates and starts a mock container
func (m *MockRuntime) Start(ctx context.Context, opts StartOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Start", opts)

	if err, ok := m.Errors["Start"]; ok {
		return err
	}

	if _, ok := m.Containers[opts.Name]; !ok {
		m.Containers[opts.Name] = &ContainerStatus{
			Name:   opts.Name,
			State:  StateRunning,
			Health: HealthStarting,
		}
	}

	return nil
}

// Status returns the next scripted status, or the steady state
func (m *MockRuntime) Status(ctx context.Context, name string) (*ContainerStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Status", name)

	if err, ok := m.Errors["Status"]; ok {
		return nil, err
	}

	if seq := m.StatusSeq[name]; len(seq) > 0 {
		next := seq[0]
		m.StatusSeq[name] = seq[1:]
		return next, nil
	}

	if status, ok := m.Containers[name]; ok {
		return status, nil
	}

	return &ContainerStatus{Name: name, State: StateNotFound, Health: HealthNone}, nil
}

// Exec returns the configured result for the command prefix
func (m *MockRuntime) Exec(ctx context.Context, name string, command []string) (*ExecResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Exec", name, command)

	if err, ok := m.Errors["Exec"]; ok {
		return nil, err
	}

	line := strings.Join(command, " ")
	for prefix, result := range m.ExecResults {
		if strings.HasPrefix(line, prefix) {
			return result, nil
		}
	}

	return &ExecResult{ExitCode: 0}, nil
}

// Logs returns the configured log text
func (m *MockRuntime) Logs(ctx context.Context, name string, tail int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Logs", name, tail)

	if err, ok := m.Errors["Logs"]; ok {
		return "", err
	}

	return m.LogsText, nil
}

// Stop stops a mock container
func (m *MockRuntime) Stop(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Stop", name)

	if err, ok := m.Errors["Stop"]; ok {
		return err
	}

	if status, ok := m.Containers[name]; ok {
		status.State = StateExited
		return nil
	}

	return fmt.Errorf("container not found: %s", name)
}

// Remove removes a mock container
func (m *MockRuntime) Remove(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Remove", name)

	if err, ok := m.Errors["Remove"]; ok {
		return err
	}

	delete(m.Containers, name)
	return nil
}

// Ensure MockRuntime implements Runtime
var _ Runtime = (*MockRuntime)(nil)
