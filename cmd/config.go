package cmd

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zorak1103/okrtree/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display the effective configuration",
	Long: `Display the effective configuration that okrtree will use at runtime.

This shows the merged configuration from:
  1. Default values
  2. Configuration file (config.yaml)
  3. .env file and environment variables (highest priority)

The database password and notification credentials are masked.`,
	Example: `  # Show current configuration
  okrtree config

  # Show with custom config file
  okrtree config --config /etc/okrtree/config.yaml`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		displayConfig(cmd.OutOrStdout(), cfg)
		return nil
	},
}

// nolint:gochecknoinits // Standard Cobra pattern for command registration
func init() {
	rootCmd.AddCommand(configCmd)
}

func displayConfig(w io.Writer, cfg *config.Config) {
	source := cfg.ConfigFilePath
	if source == "" {
		source = "(defaults/environment)"
	}

	fmt.Fprintln(w, "=== okrtree Effective Configuration ===")
	fmt.Fprintf(w, "Config file: %s\n", source)
	fmt.Fprintln(w)

	db := cfg.Database
	fmt.Fprintln(w, "🗄️  Database Configuration:")
	fmt.Fprintf(w, "   Driver:          %s\n", db.Driver)
	fmt.Fprintf(w, "   Target:          %s\n", db.Target())
	if db.DSN != "" {
		fmt.Fprintf(w, "   DSN:             %s\n", maskDSN(db.DSN))
	} else {
		fmt.Fprintf(w, "   Host:            %s\n", db.Host)
		fmt.Fprintf(w, "   Port:            %d\n", db.Port)
		fmt.Fprintf(w, "   Name:            %s\n", db.Name)
		fmt.Fprintf(w, "   User:            %s\n", db.User)
		fmt.Fprintf(w, "   Password:        %s\n", maskSecret(db.Password))
		fmt.Fprintf(w, "   SSL Mode:        %s\n", db.SSLMode)
	}
	fmt.Fprintf(w, "   Domain Schema:   %s\n", db.DomainSchema)
	fmt.Fprintf(w, "   OKR Schema:      %s\n", db.OKRSchema)
	fmt.Fprintf(w, "   Connect Timeout: %s\n", db.ConnectTimeout)
	fmt.Fprintf(w, "   Query Timeout:   %s\n", db.QueryTimeout)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "📄 Report Configuration:")
	fmt.Fprintf(w, "   Locale:          %s\n", cfg.Report.Locale)
	fmt.Fprintf(w, "   Format:          %s\n", cfg.Report.Format)
	fmt.Fprintf(w, "   Reports Dir:     %s\n", cfg.Report.ReportsDir)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "🔔 Notification Configuration:")
	fmt.Fprintf(w, "   Enabled:         %v\n", cfg.Notification.Enabled)
	fmt.Fprintf(w, "   Shoutrrr URL:    %s\n", maskShoutrrrURL(cfg.Notification.ShoutrrURL))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "📝 Logging Configuration:")
	fmt.Fprintf(w, "   Level:           %s\n", cfg.Log.Level)
	fmt.Fprintln(w)
}

// maskSecret obscures a password, keeping only its first and last two
// characters when it is long enough to stay unguessable.
func maskSecret(secret string) string {
	if secret == "" {
		return "❌ Not set"
	}
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:2] + strings.Repeat("*", len(secret)-4) + secret[len(secret)-2:]
}

// maskDSN hides the password in a URL-form DSN. Keyword-form DSNs are not
// shown at all since the password can appear anywhere in them.
func maskDSN(dsn string) string {
	if !strings.Contains(dsn, "://") {
		return "✅ Set (keyword form, hidden)"
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "✅ Set (invalid format)"
	}
	return u.Redacted()
}

// maskShoutrrrURL masks sensitive parts of Shoutrrr URL
func maskShoutrrrURL(rawURL string) string {
	if rawURL == "" {
		return "❌ Not configured"
	}

	// Extract service type (e.g., discord://, slack://, smtp://)
	parts := strings.SplitN(rawURL, "://", 2)
	if len(parts) != 2 {
		return "✅ Configured (invalid format)"
	}

	return fmt.Sprintf("✅ Configured (%s://***)", parts[0])
}
