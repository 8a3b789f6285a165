package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Reclaim expired sessions now",
	Long: `Runs one sweep pass over the configured backend, deleting expired
session records. Backends without key enumeration sweep nothing; their
sessions still expire lazily on access.`,
	Run: func(cmd *cobra.Command, args []string) {
		manager, closeStore, _, _, err := setup(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer closeStore()

		swept, err := manager.Sweep(context.Background())
		if err != nil {
			fmt.Printf("Error sweeping sessions: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Swept %d expired session(s)\n", swept)
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
