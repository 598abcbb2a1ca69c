package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"citefetch/internal/config"
	"citefetch/internal/provider"
)

// flagNames maps provider name to the flag (and config key) carrying its
// file path.
var flagNames = map[string]string{
	provider.Cogprints.Name: "cogprints",
	provider.DBLP.Name:      "dblp",
	provider.Microsoft.Name: "microsoft",
	provider.Springer.Name:  "springer",
}

// addFileFlags registers the shared flags on a command. They are
// persistent on the root so every subcommand resolves paths the same way.
func addFileFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("cogprints", provider.Cogprints.DefaultFile, "Cogprints BibTeX input and output file")
	f.String("dblp", provider.DBLP.DefaultFile, "DBLP BibTeX input and output file")
	f.String("microsoft", provider.Microsoft.DefaultFile, "Microsoft BibTeX input and output file")
	f.String("springer", provider.Springer.DefaultFile, "Springer BibTeX input and output file")
	f.String("tex-dir", "./", "Directory containing the .tex files, scanned recursively")
	f.StringSlice("ignore", nil, "Base names of .tex files to skip (repeatable)")
	f.String("config", "", "Config file path (default: $CITEFETCH_CONFIG or ~/.config/citefetch/config.yml)")
}

// runConfig holds the flag and config values resolved for a run.
type runConfig struct {
	texDir string
	ignore map[string]bool
	files  map[string]string // provider name -> bib file path
}

// resolveConfig merges flags over the optional config file over built-in
// defaults. An explicitly set flag always wins; the config file's
// defaults section fills in the rest.
func resolveConfig(cmd *cobra.Command) (*runConfig, error) {
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.LoadOptional(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rc := &runConfig{
		ignore: make(map[string]bool),
		files:  make(map[string]string),
	}

	for _, p := range provider.All {
		name := flagNames[p.Name]
		value, err := flags.GetString(name)
		if err != nil {
			return nil, err
		}
		if !flags.Changed(name) {
			if fromFile := cfg.Defaults.File(p); fromFile != "" {
				value = fromFile
			}
		}
		rc.files[p.Name] = value
	}

	rc.texDir, err = flags.GetString("tex-dir")
	if err != nil {
		return nil, err
	}
	if !flags.Changed("tex-dir") && cfg.Defaults.TexDir != "" {
		rc.texDir = cfg.Defaults.TexDir
	}

	ignore, err := flags.GetStringSlice("ignore")
	if err != nil {
		return nil, err
	}
	for _, name := range ignore {
		rc.ignore[name] = true
	}

	return rc, nil
}
