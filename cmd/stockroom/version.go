// Version command for the stockroom CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukaforge/stockroom/pkg/stockroom"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the stockroom version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("stockroom", stockroom.Version)
	},
}
