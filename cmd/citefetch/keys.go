package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"citefetch/internal/config"
	"citefetch/internal/provider"
	"citefetch/internal/store"
)

var (
	keysProvider string
	keysSearch   string
	keysJSON     bool
)

func init() {
	keysCmd.Flags().StringVar(&keysProvider, "provider", "", "Filter by provider name (Cogprints, DBLP, Microsoft, Springer)")
	keysCmd.Flags().StringVar(&keysSearch, "search", "", "Only keys containing this substring")
	keysCmd.Flags().BoolVar(&keysJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(keysCmd)
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List or search the indexed BibTeX entry keys",
	Long: `Query the key index built by the index command.

Examples:
  citefetch keys
  citefetch keys --provider DBLP
  citefetch keys --search conf/focs --json`,
	Args: cobra.NoArgs,
	RunE: runKeys,
}

func runKeys(cmd *cobra.Command, args []string) error {
	if keysProvider != "" {
		if _, ok := provider.Classify(keysProvider + ":"); !ok {
			os.Exit(outputError(ExitConfigError, "unknown provider: %s", keysProvider))
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		os.Exit(outputError(ExitError, "getting current directory: %v", err))
	}

	dbPath := config.DBPath(cwd)
	if _, err := os.Stat(dbPath); err != nil {
		os.Exit(outputError(ExitError, "no key index at %s (run `citefetch index` first)", dbPath))
	}

	db, err := store.Open(dbPath)
	if err != nil {
		os.Exit(outputError(ExitError, "%v", err))
	}
	defer db.Close()

	var entries []store.Entry
	if keysSearch != "" {
		entries, err = db.Search(keysSearch)
	} else {
		entries, err = db.List(keysProvider)
	}
	if err != nil {
		os.Exit(outputError(ExitError, "%v", err))
	}

	// Search does not filter by provider in SQL; apply it here.
	if keysSearch != "" && keysProvider != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if e.Provider == keysProvider {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	if keysJSON {
		if entries == nil {
			entries = []store.Entry{}
		}
		return outputJSON(entries)
	}

	for _, e := range entries {
		fmt.Printf("%-10s  %s\n", e.Provider, e.Key)
	}
	fmt.Printf("%d key(s).\n", len(entries))
	return nil
}
