package main

import (
	"os"

	"github.com/spf13/cobra"

	"citefetch/internal/pipeline"
)

func init() {
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List the citation keys found in your LaTeX documents",
	Long: `Scan the document tree and report the citation keys found, grouped
by provider, plus the keys with no recognized provider prefix. No files
are read or written and no network calls are made.`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	rc, err := resolveConfig(cmd)
	if err != nil {
		os.Exit(outputError(ExitConfigError, "%v", err))
	}

	p := pipeline.New(pipeline.Options{
		TexDir: rc.texDir,
		Ignore: rc.ignore,
		Out:    os.Stdout,
	})

	if _, err := p.ScanDocuments(); err != nil {
		os.Exit(outputError(ExitError, "%v", err))
	}

	return nil
}
