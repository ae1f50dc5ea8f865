// Package query provides SQL query engines for analytical access to
// the lake, behind a small adapter interface with a registry keyed by
// engine name.
package query

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Config holds the configuration for connecting to a query engine.
type Config struct {
	// Host is the engine coordinator hostname.
	Host string `koanf:"host"`

	// Port is the coordinator port.
	Port int `koanf:"port"`

	// User is the name queries run as.
	User string `koanf:"user"`

	// Catalog is the default catalog.
	Catalog string `koanf:"catalog"`

	// Schema is the default schema.
	Schema string `koanf:"schema"`
}

// Result holds the rows returned by a query, fully materialized.
type Result struct {
	Columns []string
	Rows    [][]any
}

// Engine is the interface query engine adapters implement.
type Engine interface {
	// Connect establishes a connection to the engine.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the connection and releases resources.
	Close() error

	// Exec executes a statement that returns no rows, such as DDL.
	Exec(ctx context.Context, query string) error

	// Query executes a statement and materializes the result.
	Query(ctx context.Context, query string) (*Result, error)

	// EngineName returns the registry name of this engine.
	EngineName() string
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func(*slog.Logger) Engine)
)

// Register adds an engine factory to the registry. Called by engine
// implementations in their init() functions.
func Register(name string, factory func(*slog.Logger) Engine) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// New creates an engine instance by registry name.
func New(name string, logger *slog.Logger) (Engine, error) {
	if name == "" {
		return nil, fmt.Errorf("query engine not specified")
	}
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, &UnknownEngineError{Name: name, Available: ListEngines()}
	}
	return factory(logger), nil
}

// ListEngines returns all registered engine names, sorted.
func ListEngines() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownEngineError is returned when an unknown engine is requested.
type UnknownEngineError struct {
	Name      string
	Available []string
}

func (e *UnknownEngineError) Error() string {
	return fmt.Sprintf("unknown query engine %q, available engines: %v", e.Name, e.Available)
}

// collect drains sql.Rows into a Result.
func collect(rows *sql.Rows) (*Result, error) {
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	result := &Result{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		scan := make([]any, len(columns))
		for i := range values {
			scan[i] = &values[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating result rows: %w", err)
	}
	return result, nil
}
