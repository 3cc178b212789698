package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"media-resolver-go/pkg/appctx"
	"media-resolver-go/pkg/config"
	"media-resolver-go/pkg/logging"
)

// Global flags
var (
	flagLogLevel string
	flagJSONLogs bool
	flagBackend  string
)

// cfg and log are loaded before any subcommand runs (defaults < env < flags).
var (
	cfg *config.Config
	log *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "media-resolver",
	Short: "Resolve social and video links into direct media URLs",
	Long: `media-resolver turns a YouTube, TikTok, Facebook, Instagram or Pinterest link
into its title, thumbnail and directly downloadable media URLs.
Run "serve" for the HTTP API or "resolve" for a one-off lookup.`,
	Version:           appctx.Version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug | info | warn | error")
	rootCmd.PersistentFlags().BoolVar(&flagJSONLogs, "json-logs", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Page backend: chrome | http | flaresolverr")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(platformsCmd)
}

// loadConfig loads configuration from the environment and applies flag overrides.
func loadConfig(cmd *cobra.Command, args []string) error {
	cfg = config.Load()

	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagJSONLogs {
		cfg.LogJSON = true
	}
	if flagBackend != "" {
		cfg.BrowserBackend = flagBackend
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Logs go to stderr so resolve output stays pipeable.
	log = logging.New(cfg.LogLevel, cfg.LogJSON, os.Stderr)
	return nil
}
