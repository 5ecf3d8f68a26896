package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/glimmerlab/browserbox-ctl/internal/config"
	"github.com/glimmerlab/browserbox-ctl/internal/errors"
	"github.com/glimmerlab/browserbox-ctl/internal/harness"
	"github.com/glimmerlab/browserbox-ctl/internal/runtime"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Start the container under test and verify its readiness",
	Args:  cobra.NoArgs,
	RunE:  runVerify,
}

var (
	verifyImage     string
	verifyConfig    string
	verifyName      string
	verifyTimeout   time.Duration
	verifyGrace     time.Duration
	verifyArtifacts string
	verifyCapAdd    []string
	verifyShmSize   string
	verifyKeep      bool
)

func init() {
	verifyCmd.Flags().StringVar(&verifyImage, "image", "", "Image under test (default $"+config.ImageEnvVar+")")
	verifyCmd.Flags().StringVarP(&verifyConfig, "config", "c", "", "Path to a TOML config file")
	verifyCmd.Flags().StringVar(&verifyName, "name", "", "Name for the test container")
	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 0, "Composite health deadline")
	verifyCmd.Flags().DurationVar(&verifyGrace, "grace", 0, "Delay between healthy status and probing")
	verifyCmd.Flags().StringVar(&verifyArtifacts, "artifacts", "", "Directory for failure diagnostics")
	verifyCmd.Flags().StringArrayVar(&verifyCapAdd, "cap-add", nil, "Capability grant for the container (repeatable)")
	verifyCmd.Flags().StringVar(&verifyShmSize, "shm-size", "", "Shared-memory size for the container")
	verifyCmd.Flags().BoolVar(&verifyKeep, "keep", false, "Leave the container running after the run")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(verifyConfig)
	if err != nil {
		return errors.ConfigError("failed to load config", err)
	}

	// Flags override the file and the environment.
	if verifyImage != "" {
		cfg.Image = verifyImage
	}
	if verifyName != "" {
		cfg.ContainerName = verifyName
	}
	if cmd.Flags().Changed("timeout") {
		cfg.HealthDeadline.Duration = verifyTimeout
	}
	if cmd.Flags().Changed("grace") {
		cfg.GraceDelay.Duration = verifyGrace
	}
	if verifyArtifacts != "" {
		cfg.ArtifactsDir = verifyArtifacts
	}
	if len(verifyCapAdd) > 0 {
		cfg.CapAdd = verifyCapAdd
	}
	if verifyShmSize != "" {
		cfg.ShmSize = verifyShmSize
	}

	if err := cfg.Validate(); err != nil {
		return errors.ValidationError(err.Error())
	}

	rt, err := runtime.NewDockerRuntime()
	if err != nil {
		return errors.ConfigError("no container engine available", err)
	}

	// An operator interrupt must still reach the teardown guard.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := harness.New(cfg, rt, harness.WithKeep(verifyKeep))

	logInfo("Verifying %s with %s", cfg.Image, rt.Name())

	if _, err := h.Run(ctx); err != nil {
		return err
	}

	logSuccess("Container %s is fully operational", cfg.ContainerName)
	return nil
}
