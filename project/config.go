package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// configNames are the accepted configuration file spellings, in lookup
// order.
var configNames = []string{"syxconfig.json", "syxconfig.yaml", "syxconfig.yml"}

// Config describes one syx project.
type Config struct {
	Name          string   `json:"name" yaml:"name"`
	RootDir       string   `json:"rootDir" yaml:"rootDir"`
	OutDir        string   `json:"outDir" yaml:"outDir"`
	Format        string   `json:"format" yaml:"format"`
	Main          string   `json:"main" yaml:"main"`
	IgnoredChecks []string `json:"ignoredChecks" yaml:"ignoredChecks"`
}

// DefaultConfig is what `syx init` writes.
func DefaultConfig() Config {
	return Config{
		Name:    "syx-project",
		RootDir: "src",
		OutDir:  "out",
		Format:  "py",
	}
}

// LoadConfig reads and validates a configuration file. The decoder is
// picked by extension: .json, or .yaml/.yml.
func LoadConfig(path string) (Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("reading config: %w", err)
	}

	switch filepath.Ext(path) {
	case ".json":
		err = json.Unmarshal(data, &config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		return config, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return config, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := config.validate(); err != nil {
		return config, fmt.Errorf("invalid config %s: %w", path, err)
	}

	// Relative directories are anchored at the config file's location.
	base := filepath.Dir(path)
	if !filepath.IsAbs(config.RootDir) {
		config.RootDir = filepath.Join(base, config.RootDir)
	}
	if !filepath.IsAbs(config.OutDir) {
		config.OutDir = filepath.Join(base, config.OutDir)
	}
	return config, nil
}

func (c Config) validate() error {
	if c.RootDir == "" {
		return fmt.Errorf("rootDir is required")
	}
	if c.OutDir == "" {
		return fmt.Errorf("outDir is required")
	}
	if c.Format == "" {
		return fmt.Errorf("format is required")
	}
	return nil
}

// FindConfig walks upward from dir looking for a configuration file.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		for _, name := range configNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no syxconfig found above %s", dir)
		}
		dir = parent
	}
}

// WriteDefaultConfig creates a starter syxconfig.json at path.
func WriteDefaultConfig(path string) error {
	data, err := json.MarshalIndent(DefaultConfig(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
