package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-tex2html/internal/fileutil"
	"github.com/alnah/go-tex2html/internal/hints"
	"github.com/alnah/go-tex2html/internal/yamlutil"
)

// Sentinel errors for configuration loading.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigRead     = errors.New("failed to read config file")
	ErrConfigParse    = errors.New("failed to parse config file")
	ErrInvalidTimeout = errors.New("invalid timeout")
)

// defaultConfigName is searched in the working directory and the user
// config directory when no --config flag is given.
const defaultConfigName = "tex2html.yaml"

// fileConfig mirrors the YAML config file. Flags override these values.
type fileConfig struct {
	Style    string `yaml:"style"`
	CSS      string `yaml:"css"`
	Output   string `yaml:"output"`
	Timeout  string `yaml:"timeout"`
	Workers  int    `yaml:"workers"`
	Fragment bool   `yaml:"fragment"`
	PDF      bool   `yaml:"pdf"`
}

// configSearchPaths returns the locations probed for a config file, in
// priority order.
func configSearchPaths() []string {
	paths := []string{defaultConfigName}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "go-tex2html", defaultConfigName))
	}
	return paths
}

// loadConfig reads the YAML config. An explicit path must exist; with no
// path the search locations are probed and an absent config is not an
// error, just defaults.
func loadConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{}

	if path == "" {
		searched := configSearchPaths()
		for _, p := range searched {
			if fileutil.FileExists(p) {
				path = p
				break
			}
		}
		if path == "" {
			return cfg, nil
		}
	} else if !fileutil.FileExists(path) {
		return nil, fmt.Errorf("%w: %s%s", ErrConfigNotFound, path, hints.ForConfigNotFound(configSearchPaths()))
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the user's own flag
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigRead, err)
	}
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return cfg, nil
}

// mergeFlags overlays flag values onto the file config. Flags win wherever
// both are set.
func mergeFlags(cfg *fileConfig, flags *cliFlags) {
	if flags.style != "" {
		cfg.Style = flags.style
	}
	if flags.cssFile != "" {
		cfg.CSS = flags.cssFile
	}
	if flags.output != "" {
		cfg.Output = flags.output
	}
	if flags.timeout != "" {
		cfg.Timeout = flags.timeout
	}
	if flags.workers != 0 {
		cfg.Workers = flags.workers
	}
	if flags.fragment {
		cfg.Fragment = true
	}
	if flags.pdf {
		cfg.PDF = true
	}
}

// resolveTimeout parses the configured timeout, defaulting to zero (let
// the library pick its default).
func resolveTimeout(cfg *fileConfig) (time.Duration, error) {
	if cfg.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(cfg.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %q%s", ErrInvalidTimeout, cfg.Timeout, hints.ForTimeout())
	}
	return d, nil
}
