package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"media-resolver-go/internal/app"
	"media-resolver-go/pkg/classifier"
	"media-resolver-go/pkg/types"
)

var flagPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  serveRun,
}

func init() {
	serveCmd.Flags().IntVarP(&flagPort, "port", "p", 0, "Listen port (overrides PORT)")
}

func serveRun(cmd *cobra.Command, args []string) error {
	if flagPort != 0 {
		cfg.Port = flagPort
	}

	application, err := app.New(cfg, log)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	return application.Run()
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <url>",
	Short: "Resolve one URL and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  resolveRun,
}

func resolveRun(cmd *cobra.Command, args []string) error {
	resolver, _, err := app.NewResolver(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := resolver.Resolve(ctx, args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(result)
}

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List supported platforms and the hosts they match",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, p := range types.SupportedPlatforms {
			fmt.Fprintf(out, "%-10s %s\n", p, strings.Join(classifier.Patterns(p), ", "))
		}
		return nil
	},
}
