// Init command: create configuration and data directories and initialize
// the storage backend.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend string `yaml:"backend"`
	DataDir string `yaml:"data_dir,omitempty"`
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize stockroom storage",
	Long:  "Create configuration and data directories, then initialize the storage backend.",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir := resolveConfigDir()
	dataDir := resolveDataDir()

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, configFileExt)
	if err := writeConfigIfMissing(configPath, dataDir); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	// Initialize the data directory via Attach then Detach.
	s, err := attachStore()
	if err != nil {
		return err
	}
	if err := s.Detach(); err != nil {
		return fmt.Errorf("detach store: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized stockroom storage in %s\n", dataDir)
	return nil
}

// writeConfigIfMissing writes config.yaml with the given data_dir unless the
// file already exists.
func writeConfigIfMissing(path, dataDir string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	data, err := yaml.Marshal(configFile{
		Backend: defaultBackend,
		DataDir: dataDir,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
