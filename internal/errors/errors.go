// Package apperrors provides domain-specific error types for okrtree.
// These error types include contextual information to aid debugging and error reporting.
package apperrors

import (
	"errors"
	"fmt"
)

// Process exit codes
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitConfigError = 2
)

// ConfigurationError represents configuration-related errors.
// It includes the configuration file path and specific key that caused the error.
type ConfigurationError struct {
	ConfigPath string // Path to the configuration file
	Key        string // Configuration key that caused the error
	Err        error  // Underlying error
}

// Error implements the error interface for ConfigurationError.
func (e *ConfigurationError) Error() string {
	path := e.ConfigPath
	if path == "" {
		path = "(defaults/environment)"
	}
	if e.Key != "" {
		return fmt.Sprintf("configuration error in %s (key: %s): %v", path, e.Key, e.Err)
	}
	return fmt.Sprintf("configuration error in %s: %v", path, e.Err)
}

// Unwrap returns the underlying error for error wrapping chains.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ConnectionError is returned when the store cannot be reached or rejects
// authentication. It carries the target without credentials.
type ConnectionError struct {
	Driver   string // Database driver (e.g., "postgres", "sqlite")
	Host     string // Host name, empty for file based stores
	Port     int    // Port, zero for file based stores
	Database string // Database name or file path
	Err      error  // Underlying error
}

// Error implements the error interface for ConnectionError.
func (e *ConnectionError) Error() string {
	if e.Host != "" {
		return fmt.Sprintf("cannot connect to %s database %q at %s:%d: %v", e.Driver, e.Database, e.Host, e.Port, e.Err)
	}
	return fmt.Sprintf("cannot connect to %s database %q: %v", e.Driver, e.Database, e.Err)
}

// Unwrap returns the underlying error for error wrapping chains.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// QueryError is returned when executing the query or reading its rows fails.
type QueryError struct {
	Operation string // Failing step (e.g., "execute", "scan", "iterate")
	Err       error  // Underlying error
}

// Error implements the error interface for QueryError.
func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s failed: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error for error wrapping chains.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		return ExitConfigError
	}
	return ExitFailure
}
