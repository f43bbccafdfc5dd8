// Package config loads the optional inspect.toml manifest that carries
// default dump selections for a project. Command-line flags always win over
// manifest values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file looked up next to (or above) the input file.
const ManifestName = "inspect.toml"

// Config is the parsed manifest.
type Config struct {
	Dump   DumpConfig   `toml:"dump"`
	Output OutputConfig `toml:"output"`
}

// DumpConfig selects which sections a run produces by default.
type DumpConfig struct {
	Atoms     bool `toml:"atoms"`
	Objects   bool `toml:"objects"`
	Functions bool `toml:"functions"`
}

// OutputConfig controls where and how the dump is written.
type OutputConfig struct {
	Color  string `toml:"color"`   // auto|on|off
	Dir    string `toml:"dir"`     // overrides the dump file directory
	NoFile bool   `toml:"no_file"` // console only, no dump file
}

// Find walks up from startDir looking for inspect.toml. Возвращает путь к
// манифесту и признак, найден ли он вообще.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load parses the manifest at path.
func Load(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %q: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid %q: %w", path, err)
	}
	return cfg, nil
}

// Discover finds and parses the manifest for the given input file. A missing
// manifest is not an error: the zero Config is returned with found=false.
func Discover(inputPath string) (Config, bool, error) {
	path, found, err := Find(filepath.Dir(inputPath))
	if err != nil || !found {
		return Config{}, false, err
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, true, err
	}
	return cfg, true, nil
}

func (c Config) validate() error {
	switch c.Output.Color {
	case "", "auto", "on", "off":
		return nil
	default:
		return fmt.Errorf("output.color must be auto, on or off, got %q", c.Output.Color)
	}
}
