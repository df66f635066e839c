package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level configuration structure
type Config struct {
	Repositories  []Repository `yaml:"repositories"`
	Parallel      bool         `yaml:"parallel"`
	ParallelLimit int          `yaml:"parallelLimit"`
	CacheDir      string       `yaml:"cacheDir"`
	BinDir        string       `yaml:"binDir"`
	DataDir       string       `yaml:"dataDir"`
}

// Repository defines one remote package source. Sources maps a collection
// name to the base URL that hosts that collection's artifacts; MetadataURL
// serves the repository's package index.
type Repository struct {
	Name        string            `yaml:"name"`
	MetadataURL string            `yaml:"metadataUrl"`
	Sources     map[string]string `yaml:"sources"`
}

// DefaultParallelLimit bounds parallel installs when no limit is configured.
const DefaultParallelLimit = 4

// Load reads the configuration from path, falling back to defaults when the
// file does not exist. Environment variables in the file are expanded.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	expanded := os.Expand(string(data), os.Getenv)

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "hoard", "config.yaml")
	}
	return "config.yaml"
}

func defaultConfig() *Config {
	cfg := &Config{
		Repositories: []Repository{
			{
				Name:        "hoard",
				MetadataURL: "https://pkgs.hoard.dev/index.json",
				Sources: map[string]string{
					"bin": "https://pkgs.hoard.dev/bin",
				},
			},
		},
	}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(config *Config) {
	home, _ := os.UserHomeDir()
	if config.CacheDir == "" {
		if dir, err := os.UserCacheDir(); err == nil {
			config.CacheDir = filepath.Join(dir, "hoard")
		} else {
			config.CacheDir = filepath.Join(home, ".cache", "hoard")
		}
	}
	if config.DataDir == "" {
		config.DataDir = filepath.Join(home, ".local", "share", "hoard")
	}
	if config.BinDir == "" {
		config.BinDir = filepath.Join(config.DataDir, "bin")
	}
	if config.ParallelLimit <= 0 {
		config.ParallelLimit = DefaultParallelLimit
	}
}

// validateConfig performs basic validation on the configuration
func validateConfig(config *Config) error {
	if len(config.Repositories) == 0 {
		return fmt.Errorf("at least one repository must be configured")
	}

	seen := make(map[string]bool, len(config.Repositories))
	for _, repo := range config.Repositories {
		if repo.Name == "" {
			return fmt.Errorf("repository name must be specified")
		}
		if seen[repo.Name] {
			return fmt.Errorf("duplicate repository name: %s", repo.Name)
		}
		seen[repo.Name] = true

		if len(repo.Sources) == 0 {
			return fmt.Errorf("repository %s must declare at least one collection source", repo.Name)
		}
	}

	return nil
}
