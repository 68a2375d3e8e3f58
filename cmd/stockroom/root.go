// Root command for the stockroom CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/dukaforge/stockroom/pkg/stockroom"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
)

// configDataDir holds the data_dir value loaded from config.yaml.
// Set by PersistentPreRunE so all subcommands can use it.
var configDataDir string

var rootCmd = &cobra.Command{
	Use:     "stockroom",
	Short:   "Stockroom is a local point-of-sale inventory store",
	Version: stockroom.Version,
	Long: `Stockroom manages products, invoices, and customer debits in a local
SQLite store with paginated, cached reads.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir := resolveConfigDir()

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		configDataDir = cfg.GetString(cfgKeyDataDir)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: .stockroom)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: .stockroom-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(productCmd)
	rootCmd.AddCommand(invoiceCmd)
	rootCmd.AddCommand(debitCmd)
	rootCmd.AddCommand(statsCmd)
}
