package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List live session IDs",
	Run: func(cmd *cobra.Command, args []string) {
		manager, closeStore, _, _, err := setup(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer closeStore()

		keys, err := manager.Keys(context.Background())
		if err != nil {
			fmt.Printf("Error listing sessions: %v\n", err)
			os.Exit(1)
		}

		if len(keys) == 0 {
			fmt.Println("No live sessions.")
			return
		}
		for _, id := range keys {
			fmt.Println(id)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
