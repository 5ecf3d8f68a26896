package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/glimmerlab/browserbox-ctl/internal/config"
	"github.com/glimmerlab/browserbox-ctl/internal/errors"
	"github.com/glimmerlab/browserbox-ctl/internal/runtime"
)

var teardownCmd = &cobra.Command{
	Use:   "teardown",
	Short: "Stop and remove a leftover test container",
	Args:  cobra.NoArgs,
	RunE:  runTeardown,
}

var teardownName string

func init() {
	teardownCmd.Flags().StringVar(&teardownName, "name", config.DefaultContainerName, "Name of the test container")
	rootCmd.AddCommand(teardownCmd)
}

func runTeardown(cmd *cobra.Command, args []string) error {
	if err := config.ValidateContainerName(teardownName); err != nil {
		return errors.ValidationError(err.Error())
	}

	rt, err := runtime.NewDockerRuntime()
	if err != nil {
		return errors.ConfigError("no container engine available", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Best-effort, like the in-run teardown guard.
	if err := rt.Stop(ctx, teardownName); err != nil {
		logWarning("stop: %v", err)
	}
	if err := rt.Remove(ctx, teardownName); err != nil {
		logWarning("remove: %v", err)
	}

	logSuccess("Container %s removed", teardownName)
	return nil
}
