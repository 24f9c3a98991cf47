package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/zorak1103/okrtree/internal/config"
	apperrors "github.com/zorak1103/okrtree/internal/errors"
	"github.com/zorak1103/okrtree/internal/hierarchy"
	"github.com/zorak1103/okrtree/internal/notification"
	"github.com/zorak1103/okrtree/internal/reporting"
	"github.com/zorak1103/okrtree/internal/store"
	"go.uber.org/zap"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print goals and OKRs grouped by life domain",
	Long: `Report reads the whole hierarchy with one join query and prints it.

This command:
  1. Fetches life domains, goals, objectives and key results in one query
  2. Rebuilds the hierarchy, keeping childless domains, goals and objectives
  3. Prints every level sorted by its order field, followed by a summary
  4. Optionally saves a markdown copy and sends a notification

An empty store is not an error: the report shows zero counts.`,
	Example: `  # Print the report with Dutch titles
  okrtree report

  # English titles, summary table only
  okrtree report --locale en --summary-only

  # Machine readable output
  okrtree report --format yaml

  # Save a markdown copy and notify
  okrtree report --save --notify`,
	RunE: runReport,
}

// nolint:gochecknoinits // Standard Cobra pattern for command registration
func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("locale", "", "title language: nl or en (default from report.locale)")
	reportCmd.Flags().String("format", "", "output format: text, markdown or yaml (default from report.format)")
	reportCmd.Flags().Bool("summary-only", false, "print only the per-domain summary table")
	reportCmd.Flags().Bool("save", false, "save a markdown copy under the reports directory")
	reportCmd.Flags().Bool("notify", false, "send the summary via the configured notification channel")
}

// reportConfig holds the report flags resolved against the configuration.
type reportConfig struct {
	locale      hierarchy.Locale
	format      string
	summaryOnly bool
	save        bool
	notify      bool
}

// newReportConfigFromCmd reads the report flags. Empty flags fall back to
// the configured defaults.
func newReportConfigFromCmd(cmd *cobra.Command, cfg *config.Config) (*reportConfig, error) {
	localeFlag, _ := cmd.Flags().GetString("locale")
	format, _ := cmd.Flags().GetString("format")
	summaryOnly, _ := cmd.Flags().GetBool("summary-only")
	save, _ := cmd.Flags().GetBool("save")
	notify, _ := cmd.Flags().GetBool("notify")

	if localeFlag == "" {
		localeFlag = cfg.Report.Locale
	}
	locale, ok := hierarchy.ParseLocale(localeFlag)
	if !ok {
		return nil, &apperrors.ConfigurationError{
			Key: "report.locale",
			Err: fmt.Errorf("%w: unsupported locale %q (use nl or en)", config.Err, localeFlag),
		}
	}

	if format == "" {
		format = cfg.Report.Format
	}
	if err := config.ValidateFormat(format); err != nil {
		return nil, &apperrors.ConfigurationError{Key: "report.format", Err: fmt.Errorf("%w: %w", config.Err, err)}
	}

	return &reportConfig{
		locale:      locale,
		format:      format,
		summaryOnly: summaryOnly,
		save:        save,
		notify:      notify,
	}, nil
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	reportCfg, err := newReportConfigFromCmd(cmd, cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger.Debug("fetching hierarchy",
		zap.String("target", cfg.Database.Target()),
		zap.String("locale", string(reportCfg.locale)),
		zap.String("format", reportCfg.format))

	rows, err := store.FetchRows(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}

	tree := hierarchy.Build(rows)
	logger.Debug("hierarchy built", zap.Int("rows", len(rows)), zap.Int("life_domains", tree.Len()))

	opts := reporting.Options{Locale: reportCfg.locale, Source: cfg.Database.Target()}
	if err := writeReport(cmd.OutOrStdout(), tree, opts, reportCfg); err != nil {
		return err
	}

	if reportCfg.save {
		path, err := reporting.SaveReport(cfg.Report.ReportsDir, cfg.Database.SourceName(), reporting.GenerateMarkdown(tree, opts), "md")
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "💾 Report saved: %s\n", path)
	}

	if reportCfg.notify {
		sendNotification(cmd.ErrOrStderr(), tree, opts, cfg)
	}

	return nil
}

// writeReport renders the tree in the requested format. summary-only
// replaces the report with the summary table whatever the format.
func writeReport(w io.Writer, tree *hierarchy.Tree, opts reporting.Options, reportCfg *reportConfig) error {
	var out string
	switch {
	case reportCfg.summaryOnly:
		out = reporting.GenerateSummary(tree, opts)
	case reportCfg.format == config.FormatYAML:
		var err error
		out, err = reporting.GenerateYAML(tree, opts)
		if err != nil {
			return err
		}
	case reportCfg.format == config.FormatMarkdown:
		out = reporting.GenerateMarkdown(tree, opts)
	default:
		out = reporting.GenerateText(tree, opts) + reporting.GenerateSummary(tree, opts)
	}

	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// sendNotification delivers the summary. Failures are reported as warnings
// and never change the exit status.
func sendNotification(w io.Writer, tree *hierarchy.Tree, opts reporting.Options, cfg *config.Config) {
	notifier, err := notification.NewNotifier(cfg)
	if err != nil {
		fmt.Fprintf(w, "⚠️  Notification setup failed: %v\n", err)
		return
	}
	if !notifier.IsEnabled() {
		fmt.Fprintln(w, "⚠️  Notifications are disabled (set notification.enabled to true)")
		return
	}

	if err := notifier.SendSummary(tree, opts.Source, opts.Locale); err != nil {
		logger.Warn("notification failed", zap.Error(err))
		fmt.Fprintf(w, "⚠️  Failed to send notification: %v\n", err)
		return
	}
	fmt.Fprintln(w, "📨 Notification sent")
}
