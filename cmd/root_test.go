package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/zorak1103/okrtree/internal/config"
	apperrors "github.com/zorak1103/okrtree/internal/errors"
	"go.uber.org/zap"
)

const (
	testFalseValue = "false"
	testInitCmd    = "init"
)

// preserveGlobals restores the package-level command state after a test.
func preserveGlobals(t *testing.T) {
	t.Helper()

	origCfg, origErr, origLogger := cfg, errConfigLoad, logger
	origCfgFile, origVerbose := cfgFile, verbose
	t.Cleanup(func() {
		cfg, errConfigLoad, logger = origCfg, origErr, origLogger
		cfgFile, verbose = origCfgFile, origVerbose
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		resetBuiltinFlags()
	})
}

// resetBuiltinFlags clears --help and --version, which cobra keeps set on
// the shared root flag set after Execute.
func resetBuiltinFlags() {
	for _, name := range []string{"help", "version"} {
		if f := rootCmd.Flags().Lookup(name); f != nil {
			_ = f.Value.Set("false")
			f.Changed = false
		}
	}
}

func TestRootCmd_Structure(t *testing.T) {
	t.Parallel()

	cmd := rootCmd

	if cmd.Use != "okrtree" {
		t.Errorf("Expected command use 'okrtree', got '%s'", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("Expected command short description to be set")
	}

	if cmd.Long == "" {
		t.Error("Expected command long description to be set")
	}

	if cmd.Version == "" {
		t.Error("Expected command version to be set")
	}

	if !cmd.SilenceErrors || !cmd.SilenceUsage {
		t.Error("Expected errors to be printed by Execute, not by cobra")
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	t.Parallel()

	flags := rootCmd.PersistentFlags()

	configFlag := flags.Lookup("config")
	if configFlag == nil {
		t.Error("Expected 'config' flag to be defined")
	} else if configFlag.DefValue != "" {
		t.Errorf("Expected 'config' flag default to be empty, got '%s'", configFlag.DefValue)
	}

	verboseFlag := flags.Lookup("verbose")
	if verboseFlag == nil {
		t.Fatal("Expected 'verbose' flag to be defined")
	}

	if verboseFlag.DefValue != testFalseValue {
		t.Errorf("Expected 'verbose' flag default to be 'false', got '%s'", verboseFlag.DefValue)
	}

	if verboseFlag.Shorthand != "v" {
		t.Errorf("Expected 'verbose' flag shorthand to be 'v', got '%s'", verboseFlag.Shorthand)
	}
}

func TestRootCmd_HelpOutput(t *testing.T) {
	preserveGlobals(t)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"--help"})

	if err := rootCmd.Execute(); err != nil {
		t.Errorf("Expected no error executing help command, got: %v", err)
	}

	output := buf.String()
	expectedStrings := []string{
		"okrtree",
		"single join query",
		"report",
		"ping",
		"--config",
		"--verbose",
		"-v",
	}

	for _, expected := range expectedStrings {
		if !strings.Contains(output, expected) {
			t.Errorf("Expected help output to contain %q, got:\n%s", expected, output)
		}
	}
}

func TestRootCmd_VersionOutput(t *testing.T) {
	preserveGlobals(t)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"--version"})

	if err := rootCmd.Execute(); err != nil {
		t.Errorf("Expected no error executing version command, got: %v", err)
	}

	output := buf.String()
	for _, want := range []string{"okrtree", "build:", "commit:"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected version output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestRootCmd_VersionAfterHelp(t *testing.T) {
	preserveGlobals(t)

	var help bytes.Buffer
	rootCmd.SetOut(&help)
	rootCmd.SetArgs([]string{"--help"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Expected no error executing help command, got: %v", err)
	}
	resetBuiltinFlags()

	var version bytes.Buffer
	rootCmd.SetOut(&version)
	rootCmd.SetArgs([]string{"--version"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Expected no error executing version command, got: %v", err)
	}

	output := version.String()
	if !strings.Contains(output, "commit:") || strings.Contains(output, "Usage:") {
		t.Errorf("Expected version output after a help run, got:\n%s", output)
	}
}

func TestRootCmd_SubcommandsList(t *testing.T) {
	t.Parallel()

	expectedSubcommands := []string{"init", "report", "ping", "config"}
	foundSubcommands := make(map[string]bool)

	for _, subcmd := range rootCmd.Commands() {
		foundSubcommands[subcmd.Name()] = true
	}

	for _, expected := range expectedSubcommands {
		if !foundSubcommands[expected] {
			t.Errorf("Expected subcommand '%s' to be registered", expected)
		}
	}
}

func TestGetConfig(t *testing.T) {
	preserveGlobals(t)

	cfg = nil
	if result := GetConfig(); result != nil {
		t.Error("Expected GetConfig() to return nil when cfg is nil")
	}

	testConfig := &config.Config{
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, Name: "okr.db"},
	}
	cfg = testConfig

	result := GetConfig()
	if result != testConfig {
		t.Error("Expected GetConfig() to return the set config")
	}
	if result.Database.Name != "okr.db" {
		t.Errorf("Expected database name 'okr.db', got '%s'", result.Database.Name)
	}
}

func TestIsVerbose(t *testing.T) {
	preserveGlobals(t)

	verbose = false
	if IsVerbose() {
		t.Error("Expected IsVerbose() to return false")
	}

	verbose = true
	if !IsVerbose() {
		t.Error("Expected IsVerbose() to return true")
	}
}

func TestRootCmd_PersistentPreRunE_SkipConfigForInit(t *testing.T) {
	preserveGlobals(t)
	cfg = nil

	mockCmd := &cobra.Command{Use: testInitCmd}
	if err := rootCmd.PersistentPreRunE(mockCmd, []string{}); err != nil {
		t.Errorf("Expected no error for init command, got: %v", err)
	}
	if cfg != nil {
		t.Error("init must not load configuration")
	}
}

func TestRootCmd_PersistentPreRunE_SkipConfigForHelp(t *testing.T) {
	preserveGlobals(t)

	mockCmd := &cobra.Command{Use: "help"}
	if err := rootCmd.PersistentPreRunE(mockCmd, []string{}); err != nil {
		t.Errorf("Expected no error for help command, got: %v", err)
	}
}

func TestRootCmd_PersistentPreRunE_LoadsFromEnvironment(t *testing.T) {
	preserveGlobals(t)
	t.Chdir(t.TempDir())
	t.Setenv("OKRTREE_DATABASE_NAME", "from_env")

	cfgFile = ""
	verbose = false

	mockCmd := &cobra.Command{Use: "report"}
	if err := rootCmd.PersistentPreRunE(mockCmd, []string{}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if GetConfigLoadError() != nil {
		t.Fatalf("Expected config to load, got: %v", GetConfigLoadError())
	}
	if GetConfig().Database.Name != "from_env" {
		t.Errorf("Expected database name from environment, got %q", GetConfig().Database.Name)
	}
}

func TestRootCmd_PersistentPreRunE_MissingConfigFile(t *testing.T) {
	preserveGlobals(t)
	t.Chdir(t.TempDir())

	cfgFile = "nonexistent.yaml"
	verbose = true

	mockCmd := &cobra.Command{Use: "report"}
	if err := rootCmd.PersistentPreRunE(mockCmd, []string{}); err != nil {
		t.Errorf("Expected load errors to be deferred to the command, got: %v", err)
	}

	var cfgErr *apperrors.ConfigurationError
	if !errors.As(GetConfigLoadError(), &cfgErr) {
		t.Fatalf("Expected ConfigurationError, got %v", GetConfigLoadError())
	}

	if _, err := requireConfig(); apperrors.ExitCode(err) != apperrors.ExitConfigError {
		t.Errorf("requireConfig() exit code = %d, want %d", apperrors.ExitCode(err), apperrors.ExitConfigError)
	}
}

func TestRootCmd_PersistentPreRunE_InvalidLogLevel(t *testing.T) {
	preserveGlobals(t)
	t.Chdir(t.TempDir())
	t.Setenv("OKRTREE_LOG_LEVEL", "chatty")

	cfgFile = ""
	verbose = false

	err := rootCmd.PersistentPreRunE(&cobra.Command{Use: "report"}, []string{})

	var cfgErr *apperrors.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected ConfigurationError, got %v", err)
	}
	if cfgErr.Key != "log.level" {
		t.Errorf("Expected key log.level, got %q", cfgErr.Key)
	}
}

func TestRequireConfig(t *testing.T) {
	preserveGlobals(t)

	cfg, errConfigLoad = nil, nil
	_, err := requireConfig()
	if apperrors.ExitCode(err) != apperrors.ExitConfigError {
		t.Errorf("missing config: exit code = %d, want %d", apperrors.ExitCode(err), apperrors.ExitConfigError)
	}
	if err == nil || !strings.Contains(err.Error(), "okrtree init") {
		t.Errorf("missing config error should point at init, got: %v", err)
	}

	cfg = &config.Config{}
	got, err := requireConfig()
	if err != nil || got != cfg {
		t.Errorf("requireConfig() = %v, %v; want loaded config", got, err)
	}
}

func TestRootCmd_ConfigErrorExitCode(t *testing.T) {
	preserveGlobals(t)
	t.Chdir(t.TempDir())
	t.Setenv("OKRTREE_DATABASE_DRIVER", "mysql")

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"ping"})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("Expected error for unsupported driver")
	}
	if code := apperrors.ExitCode(err); code != apperrors.ExitConfigError {
		t.Errorf("ExitCode() = %d, want %d", code, apperrors.ExitConfigError)
	}
}

func TestRootCmd_PersistentPostRun_SyncsLogger(t *testing.T) {
	preserveGlobals(t)

	logger = zap.NewNop()
	rootCmd.PersistentPostRun(rootCmd, nil)
}
