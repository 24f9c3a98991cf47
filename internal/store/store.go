// Package store fetches the denormalized goal rows from the relational store.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/zorak1103/okrtree/internal/config"
	apperrors "github.com/zorak1103/okrtree/internal/errors"
	"github.com/zorak1103/okrtree/internal/hierarchy"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// Store holds the single connection used for one run.
type Store struct {
	db     *sql.DB
	cfg    config.DatabaseConfig
	logger *zap.Logger
}

// Open connects to the configured store and verifies the connection.
// Any failure is returned as *apperrors.ConnectionError.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Debug("Opening database connection",
		zap.String("driver", cfg.Driver),
		zap.String("target", cfg.Target()))

	db, err := openDB(cfg)
	if err != nil {
		return nil, connectionError(cfg, err)
	}
	// One run issues one query; a single connection is all it needs.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, cfg: cfg, logger: logger}
	if err := s.Ping(ctx); err != nil {
		_ = db.Close() // Best effort cleanup
		return nil, err
	}

	logger.Debug("Database connection established", zap.String("target", cfg.Target()))
	return s, nil
}

func openDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		connConfig, err := pgx.ParseConfig(postgresDSN(cfg))
		if err != nil {
			return nil, fmt.Errorf("invalid connection settings: %w", err)
		}
		if cfg.DSN == "" && cfg.Password != "" {
			connConfig.Password = cfg.Password
		}
		if cfg.ConnectTimeout > 0 {
			connConfig.ConnectTimeout = cfg.ConnectTimeout
		}
		return stdlib.OpenDB(*connConfig), nil
	case config.DriverSQLite:
		return sql.Open("sqlite", sqliteDSN(cfg))
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

// postgresDSN renders a keyword/value connection string without the password,
// which is set on the parsed config instead.
func postgresDSN(cfg config.DatabaseConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	parts := []string{
		keyValue("host", cfg.Host),
		keyValue("port", strconv.Itoa(cfg.Port)),
		keyValue("dbname", cfg.Name),
		keyValue("user", cfg.User),
	}
	if cfg.SSLMode != "" {
		parts = append(parts, keyValue("sslmode", cfg.SSLMode))
	}
	return strings.Join(parts, " ")
}

func keyValue(key, value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(value)
	return key + "='" + escaped + "'"
}

// sqliteDSN opens the database file read-only so a missing file is reported
// instead of silently created.
func sqliteDSN(cfg config.DatabaseConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	return "file:" + cfg.Name + "?mode=ro"
}

func connectionError(cfg config.DatabaseConfig, err error) error {
	connErr := &apperrors.ConnectionError{
		Driver:   cfg.Driver,
		Database: cfg.Name,
		Err:      err,
	}
	if cfg.Driver == config.DriverPostgres && cfg.DSN == "" {
		connErr.Host = cfg.Host
		connErr.Port = cfg.Port
	}
	if cfg.DSN != "" {
		connErr.Database = "(dsn)"
	}
	return connErr
}

// Ping verifies the store is reachable within the connect timeout.
func (s *Store) Ping(ctx context.Context) error {
	if s.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ConnectTimeout)
		defer cancel()
	}
	if err := s.db.PingContext(ctx); err != nil {
		return connectionError(s.cfg, err)
	}
	return nil
}

// Close releases the connection.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

// FetchRows runs the join and returns its rows in query order.
// Failures are returned as *apperrors.QueryError.
func (s *Store) FetchRows(ctx context.Context) ([]hierarchy.Row, error) {
	if s.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.QueryTimeout)
		defer cancel()
	}

	query := Query(s.cfg)
	s.logger.Debug("Executing hierarchy query", zap.String("query", query))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &apperrors.QueryError{Operation: "execute", Err: err}
	}
	defer rows.Close() //nolint:errcheck // Close error surfaces through rows.Err

	var result []hierarchy.Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, &apperrors.QueryError{Operation: "scan", Err: err}
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperrors.QueryError{Operation: "iterate", Err: err}
	}

	s.logger.Debug("Hierarchy query complete", zap.Int("rows", len(result)))
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(sc scanner) (hierarchy.Row, error) {
	var r hierarchy.Row
	err := sc.Scan(
		&r.DomainID, &r.DomainKey, &r.DomainTitleNL, &r.DomainTitleEN, &r.DomainOrder,
		&r.GoalID, &r.GoalTitleNL, &r.GoalTitleEN, &r.GoalDescriptionNL, &r.GoalDescriptionEN, &r.GoalOrder,
		&r.ObjectiveID, &r.ObjectiveTitleNL, &r.ObjectiveTitleEN, &r.ObjectiveDescriptionNL, &r.ObjectiveDescriptionEN, &r.ObjectiveOrder,
		&r.KeyResultID, &r.KeyResultTitleNL, &r.KeyResultTitleEN, &r.KeyResultDescriptionNL, &r.KeyResultDescriptionEN,
		&r.KeyResultTarget, &r.KeyResultUnit, &r.KeyResultOrder,
	)
	return r, err
}

// FetchRows opens a connection, fetches the rows and closes the connection
// again, also when the query fails.
func FetchRows(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (rows []hierarchy.Row, err error) {
	s, err := Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return s.FetchRows(ctx)
}
