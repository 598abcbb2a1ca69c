package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"citefetch/internal/bib"
	"citefetch/internal/config"
	"citefetch/internal/provider"
	"citefetch/internal/store"
	"citefetch/internal/texscan"
)

func init() {
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the SQLite key index from the local BibTeX files",
	Long: `Rebuild the key index at .citefetch/keys.db from the four local
BibTeX files. The files stay the source of truth; the index only serves
the keys command.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	rc, err := resolveConfig(cmd)
	if err != nil {
		os.Exit(outputError(ExitConfigError, "%v", err))
	}

	var entries []store.Entry
	for _, prov := range provider.All {
		path := rc.files[prov.Name]
		keys, err := bib.ReadKeys(path)
		if err != nil {
			os.Exit(outputError(ExitError, "%v", err))
		}
		for _, k := range texscan.SortedKeys(keys) {
			entries = append(entries, store.Entry{
				Key:      k,
				Provider: prov.Name,
				File:     path,
			})
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		os.Exit(outputError(ExitError, "getting current directory: %v", err))
	}

	db, err := store.Open(config.DBPath(cwd))
	if err != nil {
		os.Exit(outputError(ExitError, "%v", err))
	}
	defer db.Close()

	count, err := db.Rebuild(entries)
	if err != nil {
		os.Exit(outputError(ExitError, "rebuilding index: %v", err))
	}

	fmt.Printf("Indexed %d key(s).\n", count)
	return nil
}
