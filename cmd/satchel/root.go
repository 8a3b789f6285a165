package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	satchel "github.com/satchel-dev/satchel"
	"github.com/satchel-dev/satchel/internal/logging"
	"github.com/satchel-dev/satchel/pkg/session"
)

var rootCmd = &cobra.Command{
	Use:   "satchel",
	Short: "Satchel is a pluggable, expiring session store",
	Long: `Satchel stores opaque session records with a sliding expiry window,
backed by a local file directory or a Redis-compatible cache service.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// setup loads config and opens the configured backend for a command run.
func setup(cmd *cobra.Command) (*session.Manager, func() error, *satchel.Config, *slog.Logger, error) {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	logger := logging.New(slog.LevelInfo)
	if debug {
		logger = logging.New(slog.LevelDebug)
	}

	cfg, err := satchel.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	manager, closeStore, err := satchel.Open(cfg, logger)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return manager, closeStore, cfg, logger, nil
}
