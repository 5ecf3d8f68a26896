package main

import (
	"os"

	"github.com/glimmerlab/browserbox-ctl/cmd"
	"github.com/glimmerlab/browserbox-ctl/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
