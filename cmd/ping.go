package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/zorak1103/okrtree/internal/store"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the connection to the configured store",
	Long: `Ping opens a connection to the configured store, checks that it answers
and closes it again. No query is run against the goal tables.`,
	Example: `  # Check the default PostgreSQL connection
  okrtree ping

  # Check a SQLite file
  OKRTREE_DATABASE_DRIVER=sqlite OKRTREE_DATABASE_NAME=okr.db okrtree ping`,
	RunE: runPing,
}

// nolint:gochecknoinits // Standard Cobra pattern for command registration
func init() {
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, _ []string) (err error) {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := store.Open(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	start := time.Now()
	if err := s.Ping(ctx); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Connected to %s (round trip %s)\n",
		cfg.Database.Target(), time.Since(start).Round(time.Microsecond))
	return nil
}
