// Package config handles the citefetch configuration file and local
// data paths.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"citefetch/internal/provider"
)

// Config is the optional configuration file. Its defaults section carries
// the same names as the CLI flags; explicit flags win over it.
//
//	defaults:
//	  dblp: refs/dblp.bib
//	  tex-dir: paper/
type Config struct {
	Defaults Defaults `yaml:"defaults"`
}

// Defaults mirrors the CLI flags that can be preset from the file.
type Defaults struct {
	Cogprints string `yaml:"cogprints,omitempty"`
	DBLP      string `yaml:"dblp,omitempty"`
	Microsoft string `yaml:"microsoft,omitempty"`
	Springer  string `yaml:"springer,omitempty"`
	TexDir    string `yaml:"tex-dir,omitempty"`
}

const (
	// ConfigDirName is the directory name under XDG_CONFIG_HOME.
	ConfigDirName = "citefetch"
	// ConfigFileName is the config file name.
	ConfigFileName = "config.yml"

	// DataDirName is the local data directory holding the key index.
	DataDirName = ".citefetch"
	// KeysDBFileName is the SQLite key-index file name.
	KeysDBFileName = "keys.db"
)

// EnvConfigPath names the environment variable overriding the config
// path. It can also be set from a .env file.
const EnvConfigPath = "CITEFETCH_CONFIG"

// DefaultPath returns the default config file location. Respects
// XDG_CONFIG_HOME, defaults to ~/.config/citefetch/config.yml. Returns
// "" when no home directory can be determined.
func DefaultPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDirName, ConfigFileName)
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadOptional reads the config file at path, returning an empty config
// (not an error) when the file does not exist or path is empty.
func LoadOptional(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

// File returns the configured file path for a provider, or "" when the
// config does not set one.
func (d Defaults) File(p provider.Provider) string {
	switch p.Name {
	case provider.Cogprints.Name:
		return d.Cogprints
	case provider.DBLP.Name:
		return d.DBLP
	case provider.Microsoft.Name:
		return d.Microsoft
	case provider.Springer.Name:
		return d.Springer
	}
	return ""
}

// DataPath returns the local data directory under root.
func DataPath(root string) string {
	return filepath.Join(root, DataDirName)
}

// DBPath returns the key-index database path under root.
func DBPath(root string) string {
	return filepath.Join(root, DataDirName, KeysDBFileName)
}
