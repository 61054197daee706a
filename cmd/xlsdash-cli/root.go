package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"xlsdash/internal/backend"
	"xlsdash/internal/cli"
	"xlsdash/internal/log"
	"xlsdash/internal/services"
	"xlsdash/internal/sheets/memory"
)

type rootOptions struct {
	logLevel string
	envFile  string
	logger   *log.Logger
}

// NewRootCommand builds the xlsdash-cli command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "xlsdash-cli",
		Short: "Inspect, summarize and export enrollment spreadsheets",
		Long: `xlsdash-cli loads an .xlsx or .csv file with the same normalization
the dashboard uses and prints sheet listings, summaries or filtered exports.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if opts.envFile != "" {
				cli.LoadEnvFile(opts.envFile)
			} else {
				cli.LoadEnvFile()
			}
			opts.logger = cli.SetupLogger(cmd.ErrOrStderr(), opts.logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "load environment variables from this file")

	cmd.AddCommand(
		newSheetsCommand(opts),
		newSummaryCommand(opts),
		newExportCommand(opts),
		newWatchCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

// loadFile decodes path and returns a service with it loaded as the current workbook.
func loadFile(ctx context.Context, opts *rootOptions, path string) (*services.DashboardService, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	svc := services.NewDashboardService(services.DashboardDeps{
		Store:      memory.New(),
		DecoderFor: backend.DecoderFor,
		Logger:     opts.logger,
	})
	if _, err := svc.Upload(ctx, filepath.Base(path), f); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return svc, nil
}
