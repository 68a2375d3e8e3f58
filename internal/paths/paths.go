// Package paths resolves configuration and data directory locations.
package paths

import (
	"os"
	"path/filepath"
)

// CWD-relative directory names used when no override is active.
const (
	DefaultConfigDirName = ".stockroom"
	DefaultDataDirName   = ".stockroom-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "STOCKROOM_CONFIG_DIR"
	EnvDataDir   = "STOCKROOM_DATA_DIR"
)

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > STOCKROOM_CONFIG_DIR env > $(CWD)/.stockroom.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultConfigDirName), nil
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > STOCKROOM_DATA_DIR env > config.yaml data_dir > $(CWD)/.stockroom-db.
//
// The config.yaml value ranks below the environment so an operator can point
// a deployed config at scratch storage without editing the file.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
