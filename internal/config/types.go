// Package config defines the application configuration and loads it
// from defaults, an optional YAML file, environment variables, and
// command line flags, in that order of precedence.
package config

import (
	"github.com/lakegov/lakegov/internal/lake"
	"github.com/lakegov/lakegov/internal/query"
	"github.com/lakegov/lakegov/internal/store"
)

// Config is the full application configuration.
type Config struct {
	// Store configures the object store connection.
	Store store.MinioConfig `koanf:"store"`

	// Query configures the SQL query engine.
	Query QueryConfig `koanf:"query"`

	// Zones names the zone buckets.
	Zones lake.Zones `koanf:"zones"`

	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`
}

// QueryConfig selects and configures the query engine.
type QueryConfig struct {
	// Engine is the registry name of the engine, e.g. "trino".
	Engine string `koanf:"engine"`

	query.Config `koanf:",squash"`
}

// Defaults returns the built-in configuration: a local MinIO endpoint,
// a local Trino coordinator, and the standard zone layout.
func Defaults() map[string]any {
	zones := lake.DefaultZones()
	return map[string]any{
		"store.endpoint":   "localhost:9000",
		"store.access_key": "minioadmin",
		"store.secret_key": "minioadmin",
		"store.secure":     false,
		"query.engine":     "trino",
		"query.host":       "localhost",
		"query.port":       8080,
		"query.user":       "trino",
		"query.catalog":    "minio",
		"query.schema":     "default",
		"zones.raw":        zones.Raw,
		"zones.process":    zones.Process,
		"zones.access":     zones.Access,
		"zones.metadata":   zones.Metadata,
		"zones.security":   zones.Security,
		"verbose":          false,
	}
}
