// Package main implements the interactive inventory manager.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/abgdnv/inventory/internal/config"
	"github.com/abgdnv/inventory/internal/product/app"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Manage a product inventory stored in a flat CSV file",
		Long: `Loads the product list from <data-dir>/<data-file>, opens an interactive menu
to list, add, update, delete, search, sort and price-filter products, and
writes the list back to the same file on "Save & exit".

Settings come from config.yaml, a .env file, INVENTORY_* environment
variables and the flags below, in increasing priority.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Load configuration
			cfg, err := config.Load(configFile, flagOverrides(cmd))
			if err != nil {
				return fmt.Errorf("error loading configuration: %w", err)
			}

			// Set up structured logging
			logLevel, logger := newLogger(cfg)
			logger.Info("Inventory starting...", "config", cfg.String(), "actual_slog_level", logLevel.String())

			deps, err := app.SetupDependencies(cfg, logger)
			if err != nil {
				logger.Error("Error setting up application", "error", err)
				return err
			}
			if err := app.Run(deps, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				logger.Error("Session failed", "error", err)
				return err
			}
			logger.Info("Inventory saved, bye")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configFile, "config", "c", config.DefaultConfigFile, "path to the YAML config file")
	flags.String("data-dir", "", "directory holding the data file (data.dir)")
	flags.String("data-file", "", "name of the data file inside the data directory (data.file)")
	flags.String("log-level", "", "debug, info, warn or error (log.level)")
	flags.String("currency", "", "prefix printed before prices (shell.currency)")
	flags.Bool("dry-run", false, "keep changes in memory and leave the data file untouched (data.dryrun)")
	return cmd
}

// flagOverrides maps the flags the user actually set onto config keys.
func flagOverrides(cmd *cobra.Command) map[string]any {
	keys := map[string]string{
		"data-dir":  "data.dir",
		"data-file": "data.file",
		"log-level": "log.level",
		"currency":  "shell.currency",
	}
	overrides := make(map[string]any)
	for flag, key := range keys {
		if !cmd.Flags().Changed(flag) {
			continue
		}
		value, err := cmd.Flags().GetString(flag)
		if err == nil {
			overrides[key] = value
		}
	}
	if cmd.Flags().Changed("dry-run") {
		if dryRun, err := cmd.Flags().GetBool("dry-run"); err == nil {
			overrides["data.dryrun"] = dryRun
		}
	}
	return overrides
}

// newLogger writes JSON logs to stderr so they do not interleave with the menu.
func newLogger(cfg *config.Config) (slog.Level, *slog.Logger) {
	logLevel := toLevel(cfg.Log.Level)
	loggerOpts := &slog.HandlerOptions{
		AddSource: logLevel == slog.LevelDebug,
		Level:     logLevel,
	}
	logHandler := slog.NewJSONHandler(os.Stderr, loggerOpts)
	logger := slog.New(logHandler)
	return logLevel, logger
}

// toLevel converts a string representation of a log level to slog.Level.
func toLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
