package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"citefetch/internal/pipeline"
	"citefetch/internal/provider"
)

var checkJSON bool

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Output the report as JSON")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report missing citation keys without fetching anything",
	Long: `Scan the documents and the local BibTeX files and report, per
provider, the cited keys that are not present in any local file. Makes no
network calls and writes nothing.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

// checkReport is the per-provider result of a check run.
type checkReport struct {
	Provider string   `json:"provider"`
	File     string   `json:"file"`
	Missing  []string `json:"missing"`
	UpToDate bool     `json:"up_to_date"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	rc, err := resolveConfig(cmd)
	if err != nil {
		os.Exit(outputError(ExitConfigError, "%v", err))
	}

	// Progress chatter goes to stdout only in human mode.
	var progress io.Writer = os.Stdout
	if checkJSON {
		progress = io.Discard
	}

	p := pipeline.New(pipeline.Options{
		TexDir: rc.texDir,
		Ignore: rc.ignore,
		Files:  rc.files,
		Out:    progress,
	})

	known, err := p.ReadKnown()
	if err != nil {
		os.Exit(outputError(ExitError, "%v", err))
	}
	scan, err := p.ScanDocuments()
	if err != nil {
		os.Exit(outputError(ExitError, "%v", err))
	}

	var reports []checkReport
	for _, prov := range provider.All {
		missing := pipeline.Missing(scan.ByProvider[prov.Name], known)
		reports = append(reports, checkReport{
			Provider: prov.Name,
			File:     rc.files[prov.Name],
			Missing:  missing,
			UpToDate: len(missing) == 0,
		})
	}

	if checkJSON {
		return outputJSON(reports)
	}

	for _, r := range reports {
		if r.UpToDate {
			fmt.Printf("\n%s: nothing missing.\n", r.Provider)
			continue
		}
		fmt.Printf("\n%s: %d missing key(s):\n", r.Provider, len(r.Missing))
		for _, k := range r.Missing {
			fmt.Printf("%s\n", k)
		}
	}

	return nil
}
