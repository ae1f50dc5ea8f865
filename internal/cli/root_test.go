package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "lakegov v"+Version)
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "Multi-Zone Data Lake Governance")
}

func TestLineageCommandRejectsBareArgument(t *testing.T) {
	_, err := execute(t, "lineage", "not-a-ref")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket/object")
}

func TestRootListsCommands(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	for _, name := range []string{"ingest", "process", "access", "run", "catalog", "lineage", "quality", "policy", "query"} {
		assert.True(t, strings.Contains(out, name), "help output missing %s", name)
	}
}
