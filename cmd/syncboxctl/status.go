package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show aggregate queue counts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.store.Stats(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Pending: %d\n", stats.Pending)
		fmt.Printf("Failed:  %d\n", stats.Failed)
		fmt.Printf("Total:   %d\n", stats.Total())

		return nil
	},
}
