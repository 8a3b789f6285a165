package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var destroyCmd = &cobra.Command{
	Use:   "destroy <session-id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		manager, closeStore, _, _, err := setup(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer closeStore()

		if err := manager.Destroy(context.Background(), args[0]); err != nil {
			fmt.Printf("Error destroying session: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Session %s destroyed\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(destroyCmd)
}
