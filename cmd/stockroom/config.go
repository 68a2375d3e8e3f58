// Config loading for the stockroom CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/dukaforge/stockroom/internal/paths"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyBackend       = "backend"
	cfgKeyDataDir       = "data_dir"
	cfgKeyPoolSize      = "pool_size"
	cfgKeyCacheCapacity = "cache_capacity"
	cfgKeyCacheTTL      = "cache_ttl_sec"
	cfgKeyWorkers       = "workers"

	defaultBackend = "sqlite"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Stockroom CLI configuration

# Backend selection
backend: sqlite

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Tuning (optional)
# pool_size: 4
# cache_capacity: 256
# cache_ttl_sec: 0
# workers: 2
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper. It creates the config directory and a default config.yaml on first
// run. A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// resolveConfigDir returns the config directory from flag, env, or the
// CWD-relative default. See paths.ResolveConfigDir for the precedence.
func resolveConfigDir() string {
	dir, err := paths.ResolveConfigDir(flagConfigDir)
	if err != nil {
		return paths.DefaultConfigDirName
	}
	return dir
}

// resolveDataDir returns the data directory from flag, env, config.yaml, or
// the CWD-relative default. See paths.ResolveDataDir for the precedence.
func resolveDataDir() string {
	dir, err := paths.ResolveDataDir(flagDataDir, configDataDir)
	if err != nil {
		return paths.DefaultDataDirName
	}
	return dir
}
