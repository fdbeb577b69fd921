package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/explorer-docs/docaug/internal/config"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docaug init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	if err := setupLogging(cfg.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

// siteName derives a display name from the working directory.
func siteName() string {
	name := "Documentation"
	if wd, err := os.Getwd(); err == nil {
		if base := filepath.Base(wd); base != "." && base != string(filepath.Separator) {
			name = base
		}
	}
	return name
}
