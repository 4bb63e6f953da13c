package strata

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the file-loadable engine configuration. Zero values mean
// defaults; CLI flags and Options applied after WithConfig override it.
type Config struct {
	// Excludes are glob patterns skipped during discovery, relative to the
	// analysis root.
	Excludes []string `yaml:"excludes"`

	// Languages restricts analysis to the named languages (java, kotlin,
	// dart, xml). Empty means all.
	Languages []string `yaml:"languages"`

	// Workers caps the extraction pool size.
	Workers int `yaml:"workers"`

	// MaxFileSize in bytes; larger source files are skipped.
	MaxFileSize int64 `yaml:"max_file_size"`
}

// DefaultConfigFile is the conventional config filename, looked up relative
// to the analysis root.
const DefaultConfigFile = ".strata.yml"

// LoadConfig reads a YAML config file. A missing file is not an error: it
// returns the zero Config, matching the side-channel degradation rule —
// optional inputs never fail a run.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("strata: read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("strata: parse config %s: %w", path, err)
	}
	return cfg, nil
}
