// Package cmd implements the CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zorak1103/okrtree/internal/config"
	apperrors "github.com/zorak1103/okrtree/internal/errors"
	"github.com/zorak1103/okrtree/internal/logging"
	"github.com/zorak1103/okrtree/internal/version"
	"go.uber.org/zap"
)

var (
	cfgFile       string
	verbose       bool
	cfg           *config.Config
	errConfigLoad error
	logger        = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "okrtree",
	Short: "Goals and OKRs by life domain",
	Long: `okrtree reads life domains, goals, objectives and key results from a
relational store with a single join query and prints them as a tree.

It features:
  - One round trip: a single LEFT JOIN query, no N+1 lookups
  - PostgreSQL and SQLite stores
  - Dutch and English titles
  - Text, markdown and yaml reports with a per-domain summary
  - Saved markdown reports and optional notifications via Shoutrrr`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		skipConfig := cmd.Name() == "init" || cmd.Name() == "help" || cmd.Name() == "version"
		if skipConfig {
			return nil
		}

		// Commands that need the config fail with errConfigLoad via requireConfig.
		cfg, errConfigLoad = config.Load(cfgFile)
		if errConfigLoad != nil && verbose {
			fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v\n", errConfigLoad)
		}

		level := "info"
		if cfg != nil {
			level = cfg.Log.Level
		}
		var err error
		logger, err = logging.New(level, verbose)
		if err != nil {
			return &apperrors.ConfigurationError{Key: "log.level", Err: err}
		}

		if cfg != nil {
			source := cfg.ConfigFilePath
			if source == "" {
				source = "defaults/environment"
			}
			logger.Debug("configuration loaded", zap.String("source", source))
		}

		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync() //nolint:errcheck // stderr sync fails harmlessly on some platforms
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Errors are printed to stderr and mapped to the process exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		os.Exit(apperrors.ExitCode(err))
	}
}

// nolint:gochecknoinits // Standard Cobra pattern for command registration
func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}

// GetConfig returns the loaded configuration or nil if not loaded.
// Must be called after rootCmd.PersistentPreRunE has executed.
func GetConfig() *config.Config {
	return cfg
}

// GetConfigLoadError returns any error encountered during config loading.
// Returns nil if configuration loaded successfully or was not attempted.
func GetConfigLoadError() error {
	return errConfigLoad
}

// IsVerbose returns whether verbose mode is enabled via the -v flag.
func IsVerbose() bool {
	return verbose
}

// requireConfig returns the loaded configuration, or the load error as a
// ConfigurationError so the process exits with the configuration status.
func requireConfig() (*config.Config, error) {
	if errConfigLoad != nil {
		return nil, errConfigLoad
	}
	if cfg == nil {
		return nil, &apperrors.ConfigurationError{
			Err: fmt.Errorf("%w: configuration not loaded\n\nRun 'okrtree init' to create config.yaml and .env templates", config.Err),
		}
	}
	return cfg, nil
}
