package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lakegov/lakegov/internal/lake"
	"github.com/lakegov/lakegov/internal/store"
	"github.com/lakegov/lakegov/internal/testutil"
)

func TestDefaultPolicyCoversAllZones(t *testing.T) {
	zones := lake.DefaultZones()
	p := Default(zones)

	for _, bucket := range []string{zones.Raw, zones.Process, zones.Access, zones.Metadata, zones.Security} {
		zone, ok := p.Zones[bucket]
		require.True(t, ok, "missing zone policy for %s", bucket)
		assert.NotEmpty(t, zone.AccessLevels.Read)
		assert.NotEmpty(t, zone.AccessLevels.Write)
		assert.Equal(t, "required", zone.Encryption)
		assert.NotEmpty(t, zone.RetentionPolicy)
	}

	// Metadata is retained permanently; only admins delete anywhere.
	assert.Equal(t, "permanent", p.Zones[zones.Metadata].RetentionPolicy)
	for bucket, zone := range p.Zones {
		assert.Equal(t, []string{"admin"}, zone.AccessLevels.Delete, "zone %s", bucket)
	}

	confidential := p.DataClassification["confidential"]
	assert.Contains(t, confidential.MaskFields, "email")
	restricted := p.DataClassification["restricted"]
	assert.Equal(t, "required", restricted.AuditAccess)

	assert.Contains(t, p.Roles, "admin")
	assert.Contains(t, p.Roles, "data_engineer")
}

func TestPublishAndLoad(t *testing.T) {
	objects := store.NewMemStore()
	zones := lake.DefaultZones()
	publisher := NewPublisher(objects, zones.Security, testutil.NewTestLogger(t))
	ctx := context.Background()

	require.NoError(t, publisher.Publish(ctx, Default(zones)))

	// Stored as YAML under the policy key.
	data, err := objects.Get(ctx, zones.Security, PolicyKey)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Contains(t, raw, "zones")
	assert.Contains(t, raw, "data_classification")
	assert.Contains(t, raw, "roles")

	loaded, err := publisher.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Default(zones), loaded)
}

func TestLoadMissingPolicy(t *testing.T) {
	publisher := NewPublisher(store.NewMemStore(), "govern-zone-security", testutil.NewTestLogger(t))
	_, err := publisher.Load(context.Background())
	assert.Error(t, err)
}
