package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// ImageEnvVar is the environment variable naming the image under test.
const ImageEnvVar = "BROWSERBOX_IMAGE"

// Fixed defaults for the container under test.
const (
	DefaultContainerName = "browserbox-verify"
	DefaultControlPort   = 9222
	DefaultBridgePort    = 6080
	DefaultShmSize       = "2g"
	DefaultBrowserBinary = "chromium"
	DefaultBrowserProc   = "chromium"
	DefaultDisplayProc   = "Xvfb"
	DefaultLogTail       = 50
)

// Default timing knobs. All of them are configurable so tests can shrink
// them to milliseconds.
const (
	DefaultPollInterval   = 2 * time.Second
	DefaultHealthDeadline = 120 * time.Second
	DefaultGraceDelay     = 3 * time.Second
	DefaultRetryDelay     = 2 * time.Second
	DefaultHTTPTimeout    = 5 * time.Second
)

// containerNameRegex validates container names.
// Names must start with a lowercase letter or digit, followed by lowercase
// letters, digits, underscores, or hyphens. Maximum length is 63 characters.
var containerNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,62}$`)

// ValidateContainerName checks if a container name is valid.
func ValidateContainerName(name string) error {
	if name == "" {
		return fmt.Errorf("container name cannot be empty")
	}

	if !containerNameRegex.MatchString(name) {
		return fmt.Errorf("invalid container name %q: must start with a lowercase letter or digit, contain only lowercase letters, digits, underscores, or hyphens, and be at most 63 characters", name)
	}

	return nil
}

// Duration wraps time.Duration for TOML decoding from strings like "2s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// PortBinding maps a host port to a container port.
type PortBinding struct {
	Host      int `toml:"host"`
	Container int `toml:"container"`
}

// Config holds the full harness configuration.
type Config struct {
	// Image is the container image under test. Resolved from the TOML
	// file, the BROWSERBOX_IMAGE environment variable, or --image, in
	// ascending precedence.
	Image string `toml:"image"`

	// ContainerName is the fixed name of the test container.
	ContainerName string `toml:"container_name"`

	// ShmSize is the shared-memory grant passed to the container.
	ShmSize string `toml:"shm_size"`

	// CapAdd lists capability grants for the container. Empty by default;
	// grants are deployment-owned configuration and every applied grant is
	// logged at startup.
	CapAdd []string `toml:"cap_add"`

	// ControlPort publishes the DevTools protocol endpoint.
	ControlPort PortBinding `toml:"control_port"`

	// BridgePort publishes the noVNC web-bridge endpoint.
	BridgePort PortBinding `toml:"bridge_port"`

	// BrowserBinary is the binary probed with --version inside the container.
	BrowserBinary string `toml:"browser_binary"`

	// BrowserProcess is the pgrep pattern for the browser process.
	BrowserProcess string `toml:"browser_process"`

	// DisplayProcess is the pgrep pattern for the virtual display server.
	DisplayProcess string `toml:"display_process"`

	// LogTail is how many log lines to capture for failure diagnostics.
	LogTail int `toml:"log_tail"`

	// ArtifactsDir, when set, receives failure diagnostics as files.
	ArtifactsDir string `toml:"artifacts_dir"`

	PollInterval   Duration `toml:"poll_interval"`
	HealthDeadline Duration `toml:"health_deadline"`
	GraceDelay     Duration `toml:"grace_delay"`
	RetryDelay     Duration `toml:"retry_delay"`
	HTTPTimeout    Duration `toml:"http_timeout"`
}

// Default returns a Config populated with the fixed defaults and the image
// from the environment, if set.
func Default() *Config {
	return &Config{
		Image:          os.Getenv(ImageEnvVar),
		ContainerName:  DefaultContainerName,
		ShmSize:        DefaultShmSize,
		ControlPort:    PortBinding{Host: DefaultControlPort, Container: DefaultControlPort},
		BridgePort:     PortBinding{Host: DefaultBridgePort, Container: DefaultBridgePort},
		BrowserBinary:  DefaultBrowserBinary,
		BrowserProcess: DefaultBrowserProc,
		DisplayProcess: DefaultDisplayProc,
		LogTail:        DefaultLogTail,
		PollInterval:   Duration{DefaultPollInterval},
		HealthDeadline: Duration{DefaultHealthDeadline},
		GraceDelay:     Duration{DefaultGraceDelay},
		RetryDelay:     Duration{DefaultRetryDelay},
		HTTPTimeout:    Duration{DefaultHTTPTimeout},
	}
}

// Load returns the default config overlaid with the TOML file at path.
// An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that the config is usable for a verification run.
func (c *Config) Validate() error {
	if c.Image == "" {
		return fmt.Errorf("no image configured: set %s or pass --image", ImageEnvVar)
	}
	if err := ValidateContainerName(c.ContainerName); err != nil {
		return err
	}
	for _, pb := range []PortBinding{c.ControlPort, c.BridgePort} {
		if pb.Host < 1 || pb.Host > 65535 {
			return fmt.Errorf("invalid host port %d", pb.Host)
		}
		if pb.Container < 1 || pb.Container > 65535 {
			return fmt.Errorf("invalid container port %d", pb.Container)
		}
	}
	if c.PollInterval.Duration <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	if c.HealthDeadline.Duration <= 0 {
		return fmt.Errorf("health_deadline must be positive")
	}
	return nil
}

// ControlURL returns the probed DevTools endpoint on the mapped host port.
func (c *Config) ControlURL() string {
	return fmt.Sprintf("http://127.0.0.1:%d/json/list", c.ControlPort.Host)
}

// BridgeURL returns the probed web-bridge endpoint on the mapped host port.
func (c *Config) BridgeURL() string {
	return fmt.Sprintf("http://127.0.0.1:%d/", c.BridgePort.Host)
}
