package query

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"

	_ "github.com/trinodb/trino-go-client/trino" // trino driver
)

func init() {
	Register("trino", func(logger *slog.Logger) Engine { return NewTrinoEngine(logger) })
}

// TrinoEngine implements Engine for a Trino coordinator.
type TrinoEngine struct {
	db     *sql.DB
	config Config
	logger *slog.Logger
}

// NewTrinoEngine creates an unconnected Trino engine.
func NewTrinoEngine(logger *slog.Logger) *TrinoEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrinoEngine{logger: logger}
}

// Connect opens a connection pool against the Trino coordinator and
// verifies it with a ping.
func (e *TrinoEngine) Connect(ctx context.Context, cfg Config) error {
	dsn := url.URL{
		Scheme: "http",
		User:   url.User(cfg.User),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
	}
	params := url.Values{}
	if cfg.Catalog != "" {
		params.Set("catalog", cfg.Catalog)
	}
	if cfg.Schema != "" {
		params.Set("schema", cfg.Schema)
	}
	dsn.RawQuery = params.Encode()

	db, err := sql.Open("trino", dsn.String())
	if err != nil {
		return fmt.Errorf("failed to open trino connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping trino coordinator: %w", err)
	}

	e.db = db
	e.config = cfg
	e.logger.Debug("connected to trino", "host", cfg.Host, "port", cfg.Port, "catalog", cfg.Catalog)
	return nil
}

// Close closes the Trino connection.
func (e *TrinoEngine) Close() error {
	if e.db != nil {
		return e.db.Close()
	}
	return nil
}

// Exec executes a statement that returns no rows.
func (e *TrinoEngine) Exec(ctx context.Context, query string) error {
	if e.db == nil {
		return fmt.Errorf("trino connection not established")
	}
	if _, err := e.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to execute statement: %w", err)
	}
	return nil
}

// Query executes a statement and materializes the result.
func (e *TrinoEngine) Query(ctx context.Context, query string) (*Result, error) {
	if e.db == nil {
		return nil, fmt.Errorf("trino connection not established")
	}
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return collect(rows)
}

// EngineName returns "trino".
func (e *TrinoEngine) EngineName() string {
	return "trino"
}

// Ensure TrinoEngine implements Engine
var _ Engine = (*TrinoEngine)(nil)
