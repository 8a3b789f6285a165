package main

import (
	"fmt"

	"github.com/spf13/cobra"

	satchel "github.com/satchel-dev/satchel"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of satchel",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("satchel version %s\n", satchel.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
