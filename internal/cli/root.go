// Package cli is the trendify command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpggio/trendify/internal/app"
	"github.com/rpggio/trendify/internal/config"
)

// Execute runs the root command and exits non-zero on failure.
func Execute(version string) {
	cmd := newRootCmd(version)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	debug   bool
	journal string
}

func newRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "trendify",
		Short:         "Fit linear regression models to tabular data and predict with them",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging to stderr")
	cmd.PersistentFlags().StringVar(&opts.journal, "journal", "", "SQLite journal path for activity records (disabled when empty)")

	cmd.AddCommand(
		inspectCmd(opts),
		fitCmd(opts),
		predictCmd(opts),
		showCmd(opts),
	)
	return cmd
}

// services loads configuration and wires the pipeline for one command run.
func (o *rootOptions) services(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg.Journal.Path = o.journal

	level := slog.LevelWarn
	if o.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	return app.New(cfg, logger)
}
