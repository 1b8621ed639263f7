// Command syncboxctl operates a syncbox queue from the terminal: inspect
// aggregate counts, run manual drains, clear failed operations, trigger
// reconciliation pulls, or run the drain loop as a foreground process.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "syncboxctl",
	Short:         "Operate an offline-first syncbox queue",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config (environment variables override)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
