// Package config loads CLI settings from defaults, an optional TOML file and
// environment variables, in that order of precedence (lowest first).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Environment variables that override file settings.
const (
	EnvDBPath   = "BILLSPLIT_DB_PATH"
	EnvLogLevel = "LOG_LEVEL"
	EnvConfig   = "BILLSPLIT_CONFIG"
)

// Config holds the settings for the billsplit CLI.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `toml:"db_path"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// ExportFormat is the default format for export: json or yaml.
	ExportFormat string `toml:"export_format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DBPath:       filepath.Join(".", "data", "billsplit.db"),
		LogLevel:     "warn",
		ExportFormat: "json",
	}
}

// DefaultPath returns the config file location used when none is given:
// $BILLSPLIT_CONFIG, else <user config dir>/billsplit/config.toml.
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "billsplit", "config.toml")
}

// Load reads the TOML file at path over the defaults, then applies env
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		_, err := toml.DecodeFile(path, &cfg)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// no file: defaults apply
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg.DBPath = getEnv(EnvDBPath, cfg.DBPath)
	cfg.LogLevel = getEnv(EnvLogLevel, cfg.LogLevel)

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
