package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/medcrm/syncbox"
)

func init() {
	rootCmd.AddCommand(drainCmd, clearFailedCmd)
}

var drainCmd = &cobra.Command{
	Use:   "drain",
	Short: "Run one delivery pass over all eligible operations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		processor := syncbox.NewProcessor(a.store, a.transport, a.processorOptions()...)

		result, err := processor.Drain(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Attempted: %d\n", result.Attempted)
		fmt.Printf("Delivered: %d\n", result.Delivered)
		fmt.Printf("Retried:   %d\n", result.Retried)
		fmt.Printf("Exhausted: %d\n", result.Exhausted)
		fmt.Printf("Skipped:   %d\n", result.Skipped)

		return nil
	},
}

var clearFailedCmd = &cobra.Command{
	Use:   "clear-failed",
	Short: "Remove operations that exhausted their retries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		processor := syncbox.NewProcessor(a.store, a.transport, a.processorOptions()...)

		removed, err := processor.ClearFailed(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Removed %d failed operation(s)\n", removed)

		return nil
	},
}
