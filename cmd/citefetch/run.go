package main

import (
	"os"

	"github.com/spf13/cobra"

	"citefetch/internal/fetch"
	"citefetch/internal/pipeline"
)

// runFetch is the root command: the full scan, diff, fetch, merge run.
func runFetch(cmd *cobra.Command, args []string) error {
	rc, err := resolveConfig(cmd)
	if err != nil {
		os.Exit(outputError(ExitConfigError, "%v", err))
	}

	p := pipeline.New(pipeline.Options{
		TexDir: rc.texDir,
		Ignore: rc.ignore,
		Files:  rc.files,
		Client: fetch.NewClient(),
		Out:    os.Stdout,
	})

	if _, err := p.Run(cmd.Context()); err != nil {
		os.Exit(outputError(ExitError, "%v", err))
	}

	return nil
}
