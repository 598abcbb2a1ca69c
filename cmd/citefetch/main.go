// Package main provides the citefetch CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// A .env file may carry CITEFETCH_CONFIG; absence is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "citefetch",
	Short: "Fetch missing BibTeX records cited in your LaTeX documents",
	Long: `citefetch scans a directory of LaTeX documents for citation keys,
compares them against the entries in your local BibTeX files, and fetches
the missing records from Cogprints, DBLP, Microsoft Research, and Springer,
appending them to the matching file without duplicating keys.

Keys are classified by prefix: Cogprints:, DBLP:, Microsoft:, Springer:.
Keys with no recognized prefix are reported but never fetched.

Running citefetch with no subcommand performs the full scan-and-fetch run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runFetch,
}

func init() {
	rootCmd.Version = Version
	addFileFlags(rootCmd)
}
