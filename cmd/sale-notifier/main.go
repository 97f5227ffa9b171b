// Package main is the sale-notifier command line: process one webhook
// payload, serve the webhook over HTTP, or probe the analytical store.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/light-bringer/sale-notifier/internal/config"
	"github.com/light-bringer/sale-notifier/internal/obs"
)

var Version = "dev"

var logLevel string

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "sale-notifier",
		Short:   "E-mails clients their purchase and NFC-e after a point-of-sale event",
		Version: Version,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")

	rootCmd.AddCommand(processCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(probeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and applies persistent flag overrides.
func loadConfig() *config.Config {
	cfg := config.Load()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return &cfg
}

// initLogger logs to w. One-shot commands pass stderr so stdout carries
// only their result.
func initLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return obs.InitLogger(w, cfg.LogLevel).With("service", "sale-notifier")
}
