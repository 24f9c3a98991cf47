package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/zorak1103/okrtree/internal/templates"
)

var (
	force bool
)

// reportsDir matches the report.reports_dir default.
const reportsDir = "reports"

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create okrtree configuration templates",
	Long: `Init creates the configuration files and directories okrtree uses.

This command will create:
  - config.yaml (sample configuration file)
  - .env (environment variable template for the database password)
  - reports/ (directory for saved reports)

Existing files are kept unless --force is given.`,
	Example: `  # Initialize in current directory
  okrtree init

  # Force overwrite existing files
  okrtree init --force`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runInit(cmd.OutOrStdout(), force)
	},
}

// nolint:gochecknoinits // Standard Cobra pattern for command registration
func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration files")
}

type templateFile struct {
	name    string
	content []byte
}

func runInit(w io.Writer, overwrite bool) error {
	fmt.Fprintln(w, "🔧 Initializing okrtree...")

	if err := os.MkdirAll(reportsDir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", reportsDir, err)
	}
	fmt.Fprintf(w, "✅ Created directory: %s\n", reportsDir)

	files := []templateFile{
		{name: "config.yaml", content: templates.ConfigYAML},
		{name: ".env", content: templates.EnvFile},
	}

	for _, f := range files {
		if _, err := os.Stat(f.name); err == nil && !overwrite {
			fmt.Fprintf(w, "⚠️  Skipping %s (already exists, use --force to overwrite)\n", f.name)
			continue
		}

		if err := os.WriteFile(f.name, f.content, 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.name, err)
		}

		fmt.Fprintf(w, "✅ Created %s\n", f.name)
	}

	fmt.Fprintln(w, "\n🎉 Initialization complete!")
	fmt.Fprintln(w, "\n📝 Next steps:")
	fmt.Fprintln(w, "   1. Edit config.yaml to point at your database")
	fmt.Fprintln(w, "   2. Put the database password in .env (OKRTREE_DATABASE_PASSWORD)")
	fmt.Fprintln(w, "   3. Run 'okrtree ping' to test the connection")
	fmt.Fprintln(w, "   4. Run 'okrtree report' to print your goals")

	return nil
}
