package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryHasTrino(t *testing.T) {
	assert.Contains(t, ListEngines(), "trino")

	eng, err := New("trino", nil)
	require.NoError(t, err)
	assert.Equal(t, "trino", eng.EngineName())
}

func TestNewUnknownEngine(t *testing.T) {
	_, err := New("oracle", nil)
	require.Error(t, err)

	var unknown *UnknownEngineError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "oracle", unknown.Name)
	assert.Contains(t, unknown.Available, "trino")
}

func TestNewEmptyEngineName(t *testing.T) {
	_, err := New("", nil)
	assert.Error(t, err)
}

func TestEngineRequiresConnection(t *testing.T) {
	eng := NewTrinoEngine(nil)

	assert.Error(t, eng.Exec(context.Background(), "SELECT 1"))
	_, err := eng.Query(context.Background(), "SELECT 1")
	assert.Error(t, err)
	assert.NoError(t, eng.Close())
}
