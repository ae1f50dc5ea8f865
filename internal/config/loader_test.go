package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "localhost:9000", cfg.Store.Endpoint)
	assert.Equal(t, "minioadmin", cfg.Store.AccessKey)
	assert.False(t, cfg.Store.Secure)
	assert.Equal(t, "trino", cfg.Query.Engine)
	assert.Equal(t, 8080, cfg.Query.Port)
	assert.Equal(t, "minio", cfg.Query.Catalog)
	assert.Equal(t, "raw-ingestion-zone", cfg.Zones.Raw)
	assert.Equal(t, "govern-zone-metadata", cfg.Zones.Metadata)
	assert.False(t, cfg.Verbose)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lakegov.yaml")
	content := `store:
  endpoint: minio.internal:9000
  secure: true
query:
  host: trino.internal
zones:
  raw: landing-zone
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "minio.internal:9000", cfg.Store.Endpoint)
	assert.True(t, cfg.Store.Secure)
	assert.Equal(t, "trino.internal", cfg.Query.Host)
	assert.Equal(t, "landing-zone", cfg.Zones.Raw)
	// Untouched values keep their defaults.
	assert.Equal(t, "minioadmin", cfg.Store.AccessKey)
	assert.Equal(t, "process-zone", cfg.Zones.Process)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LAKEGOV_STORE__ENDPOINT", "minio.example.com:9000")
	t.Setenv("LAKEGOV_QUERY__USER", "analyst")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "minio.example.com:9000", cfg.Store.Endpoint)
	assert.Equal(t, "analyst", cfg.Query.User)
}

func TestLoadFlagOverrides(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("verbose", false, "")
	require.NoError(t, flags.Set("verbose", "true"))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
}
