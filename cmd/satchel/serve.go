package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	satchel "github.com/satchel-dev/satchel"
	"github.com/satchel-dev/satchel/internal/httpapi"
	"github.com/satchel-dev/satchel/internal/logging"
	"github.com/satchel-dev/satchel/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the session store HTTP server",
	Long: `Starts the HTTP server exposing session create/read/write/destroy
endpoints, Prometheus metrics, and a background sweep of expired sessions.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		debug, _ := cmd.Flags().GetBool("debug")

		logger := logging.New(slog.LevelInfo)
		if debug {
			logger = logging.New(slog.LevelDebug)
		}

		cfg, err := satchel.LoadConfig(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		registry := prometheus.NewRegistry()
		metrics := session.NewMetrics(registry)

		manager, closeStore, err := satchel.Open(cfg, logger, session.WithMetrics(metrics))
		if err != nil {
			fmt.Printf("Error initializing store: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			if err := closeStore(); err != nil {
				logger.Warn("Failed to close backend", "err", err)
			}
		}()

		// Background sweep, if configured and supported by the backend.
		sweepCtx, stopSweep := context.WithCancel(context.Background())
		defer stopSweep()
		if cfg.SweepInterval.Std() > 0 {
			sweeper := session.NewSweeper(manager, cfg.SweepInterval.Std(), logger)
			go sweeper.Run(sweepCtx)
		}

		mux := chi.NewRouter()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		mux.Mount("/", httpapi.NewHandler(manager, logger))

		srv := &http.Server{
			Addr:    cfg.Listen,
			Handler: mux,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Satchel server on %s (backend: %s)\n", srv.Addr, cfg.Backend)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)
			stopSweep()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Satchel server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
