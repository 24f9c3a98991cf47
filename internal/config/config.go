// Package config handles configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	apperrors "github.com/zorak1103/okrtree/internal/errors"
	"github.com/zorak1103/okrtree/internal/hierarchy"
)

// Common errors
var (
	Err = errors.New("config error")
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Supported report formats
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatYAML     = "yaml"
)

// Config represents the application configuration
type Config struct {
	Database     DatabaseConfig     `mapstructure:"database"`
	Report       ReportConfig       `mapstructure:"report"`
	Notification NotificationConfig `mapstructure:"notification"`
	Log          LogConfig          `mapstructure:"log"`

	// ConfigFilePath stores the path to the loaded config file (not marshaled from YAML)
	ConfigFilePath string `mapstructure:"-"`
}

// DatabaseConfig is the connection descriptor of the store holding the goals.
// When DSN is set it is used verbatim and the individual fields are ignored.
type DatabaseConfig struct {
	Driver         string        `mapstructure:"driver"`
	DSN            string        `mapstructure:"dsn"`
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	Name           string        `mapstructure:"name"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	SSLMode        string        `mapstructure:"sslmode"`
	DomainSchema   string        `mapstructure:"domain_schema"`
	OKRSchema      string        `mapstructure:"okr_schema"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout"`
}

// ReportConfig contains report rendering settings
type ReportConfig struct {
	Locale     string `mapstructure:"locale"`
	Format     string `mapstructure:"format"`
	ReportsDir string `mapstructure:"reports_dir"`
}

// NotificationConfig contains notification settings
type NotificationConfig struct {
	ShoutrrURL string `mapstructure:"shoutrrr_url"` // Shoutrrr URL format
	Enabled    bool   `mapstructure:"enabled"`
}

// LogConfig contains diagnostic logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/okrtree")
		v.AddConfigPath("/etc/okrtree")
	}

	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			configFile := v.ConfigFileUsed()
			if configFile == "" {
				configFile = configPath
			}
			return nil, &apperrors.ConfigurationError{
				ConfigPath: configFile,
				Err:        fmt.Errorf("error reading config file: %w", err),
			}
		}
		// Config file not found; using defaults and env vars
	}

	v.SetEnvPrefix("OKRTREE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &apperrors.ConfigurationError{
			ConfigPath: v.ConfigFileUsed(),
			Err:        fmt.Errorf("error unmarshaling config: %w", err),
		}
	}

	// Store the config file path in the struct (DI approach, no global state)
	cfg.ConfigFilePath = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// defaultUser mirrors libpq: the operating system user name, else "postgres".
func defaultUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "postgres"
}

func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.dsn", "") // Required for AutomaticEnv to work
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "woi_backend_v2")
	v.SetDefault("database.user", defaultUser())
	v.SetDefault("database.password", "")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.domain_schema", "goals")
	v.SetDefault("database.okr_schema", "goals_okr")
	v.SetDefault("database.connect_timeout", 10*time.Second)
	v.SetDefault("database.query_timeout", 30*time.Second)

	// Report defaults
	v.SetDefault("report.locale", string(hierarchy.LocaleNL))
	v.SetDefault("report.format", FormatText)
	v.SetDefault("report.reports_dir", "./reports")

	// Notification defaults
	v.SetDefault("notification.shoutrrr_url", "")
	v.SetDefault("notification.enabled", false)

	// Log defaults
	v.SetDefault("log.level", "info")
}

// Validate ensures all required fields are set and values are within valid ranges.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateReport(); err != nil {
		return err
	}
	if c.Notification.Enabled && strings.TrimSpace(c.Notification.ShoutrrURL) == "" {
		return c.invalid("notification.shoutrrr_url", "required when notification.enabled is true")
	}
	return nil
}

func (c *Config) invalid(key, format string, args ...any) error {
	return &apperrors.ConfigurationError{
		ConfigPath: c.ConfigFilePath,
		Key:        key,
		Err:        fmt.Errorf("%w: "+format, append([]any{Err}, args...)...),
	}
}

type requiredField struct {
	key   string
	value string
}

func (c *Config) validateDatabase() error {
	db := c.Database

	switch db.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return c.invalid("database.driver", "unsupported driver %q (use %s or %s)", db.Driver, DriverPostgres, DriverSQLite)
	}

	if db.DSN == "" {
		requiredFields := []requiredField{{"database.name", db.Name}}
		if db.Driver == DriverPostgres {
			requiredFields = append(requiredFields,
				requiredField{"database.host", db.Host},
				requiredField{"database.user", db.User},
			)
		}
		for _, field := range requiredFields {
			if field.value == "" {
				return c.invalid(field.key, "%s is required", field.key)
			}
		}

		if db.Driver == DriverPostgres && (db.Port < 1 || db.Port > 65535) {
			return c.invalid("database.port", "must be between 1 and 65535, got %d", db.Port)
		}
	}

	if db.ConnectTimeout <= 0 {
		return c.invalid("database.connect_timeout", "must be positive, got %s", db.ConnectTimeout)
	}
	if db.QueryTimeout <= 0 {
		return c.invalid("database.query_timeout", "must be positive, got %s", db.QueryTimeout)
	}
	return nil
}

func (c *Config) validateReport() error {
	if _, ok := hierarchy.ParseLocale(c.Report.Locale); !ok {
		return c.invalid("report.locale", "unsupported locale %q (use nl or en)", c.Report.Locale)
	}
	if err := ValidateFormat(c.Report.Format); err != nil {
		return c.invalid("report.format", "%v", err)
	}
	if c.Report.ReportsDir == "" {
		return c.invalid("report.reports_dir", "report.reports_dir is required")
	}
	return nil
}

// ValidateFormat checks that format names a supported report format.
func ValidateFormat(format string) error {
	switch format {
	case FormatText, FormatMarkdown, FormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported format %q (use %s, %s or %s)", format, FormatText, FormatMarkdown, FormatYAML)
	}
}

// SourceName names the store for saved report directories. With a DSN the
// database name is taken from it, so reports do not land under the unused
// database.name value.
func (d DatabaseConfig) SourceName() string {
	if d.DSN == "" {
		return d.Name
	}
	if d.Driver == DriverSQLite {
		path, _, _ := strings.Cut(strings.TrimPrefix(d.DSN, "file:"), "?")
		if path != "" {
			return path
		}
		return d.Driver
	}
	pgCfg, err := pgconn.ParseConfig(d.DSN)
	if err != nil || pgCfg.Database == "" {
		return d.Driver
	}
	return pgCfg.Database
}

// Target describes the configured store without credentials, for display.
func (d DatabaseConfig) Target() string {
	if d.DSN != "" {
		return d.Driver + " (dsn)"
	}
	if d.Driver == DriverSQLite {
		return "sqlite://" + d.Name
	}
	return fmt.Sprintf("postgres://%s@%s:%d/%s", d.User, d.Host, d.Port, d.Name)
}
