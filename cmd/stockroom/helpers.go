// Shared helpers for stockroom CLI commands.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/dukaforge/stockroom/internal/sqlite"
	"github.com/dukaforge/stockroom/pkg/types"
)

// attachStore resolves the data directory and tuning from config, creates a
// SQLite store, and attaches it. The caller must defer s.Detach().
func attachStore() (*sqlite.Store, error) {
	configDir := resolveConfigDir()
	cfg, err := loadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	config := types.Config{
		Backend:       cfg.GetString(cfgKeyBackend),
		DataDir:       resolveDataDir(),
		PoolSize:      cfg.GetInt(cfgKeyPoolSize),
		CacheCapacity: cfg.GetInt(cfgKeyCacheCapacity),
		CacheTTLSec:   cfg.GetInt(cfgKeyCacheTTL),
		Workers:       cfg.GetInt(cfgKeyWorkers),
	}

	s := sqlite.NewStore(nil)
	if err := s.Attach(config); err != nil {
		return nil, fmt.Errorf("attach store: %w", err)
	}
	return s, nil
}

// printJSON marshals v with indentation and prints it.
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

// printPageFooter prints the pagination line under a table listing.
func printPageFooter(result types.PagedResult) {
	fmt.Printf("page %d/%d, %d total\n", result.Page, result.TotalPages(), result.TotalCount)
}
