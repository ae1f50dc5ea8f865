// Package policy defines the data lake security policy model and
// publishes it to the security zone as YAML.
package policy

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/lakegov/lakegov/internal/lake"
	"github.com/lakegov/lakegov/internal/store"
)

// PolicyKey is the object key the security policy is published under.
const PolicyKey = "policies/data_lake_security_policy.yaml"

// AccessLevels lists the roles allowed per operation on a zone.
type AccessLevels struct {
	Read   []string `yaml:"read"`
	Write  []string `yaml:"write"`
	Delete []string `yaml:"delete"`
}

// ZonePolicy is the security policy of one zone bucket.
type ZonePolicy struct {
	Description     string       `yaml:"description"`
	AccessLevels    AccessLevels `yaml:"access_levels"`
	Encryption      string       `yaml:"encryption"`
	RetentionPolicy string       `yaml:"retention_policy"`
}

// Classification describes the handling rules of one data
// classification level.
type Classification struct {
	Description       string   `yaml:"description"`
	AccessRestriction string   `yaml:"access_restriction"`
	Encryption        string   `yaml:"encryption"`
	MaskFields        []string `yaml:"mask_fields,omitempty"`
	AuditAccess       string   `yaml:"audit_access,omitempty"`
}

// Role maps a role name to its purpose and member groups.
type Role struct {
	Description string   `yaml:"description"`
	Members     []string `yaml:"members"`
}

// SecurityPolicy is the full security policy document.
type SecurityPolicy struct {
	Zones              map[string]ZonePolicy     `yaml:"zones"`
	DataClassification map[string]Classification `yaml:"data_classification"`
	Roles              map[string]Role           `yaml:"roles"`
}

// Default returns the baseline security policy for the standard zone
// layout.
func Default(zones lake.Zones) *SecurityPolicy {
	return &SecurityPolicy{
		Zones: map[string]ZonePolicy{
			zones.Raw: {
				Description: "Storage for raw, unmodified data",
				AccessLevels: AccessLevels{
					Read:   []string{"data_engineer", "data_scientist", "admin"},
					Write:  []string{"data_engineer", "admin", "system_integrator"},
					Delete: []string{"admin"},
				},
				Encryption:      "required",
				RetentionPolicy: "90 days",
			},
			zones.Process: {
				Description: "Storage for processed and transformed data",
				AccessLevels: AccessLevels{
					Read:   []string{"data_engineer", "data_scientist", "data_analyst", "admin"},
					Write:  []string{"data_engineer", "admin"},
					Delete: []string{"admin"},
				},
				Encryption:      "required",
				RetentionPolicy: "180 days",
			},
			zones.Access: {
				Description: "Storage for analysis-ready, business-aligned data",
				AccessLevels: AccessLevels{
					Read:   []string{"data_engineer", "data_scientist", "data_analyst", "business_user", "admin"},
					Write:  []string{"data_engineer", "admin"},
					Delete: []string{"admin"},
				},
				Encryption:      "required",
				RetentionPolicy: "365 days",
			},
			zones.Metadata: {
				Description: "Storage for metadata and governance information",
				AccessLevels: AccessLevels{
					Read:   []string{"data_engineer", "admin", "governance_team"},
					Write:  []string{"data_engineer", "admin", "system"},
					Delete: []string{"admin"},
				},
				Encryption:      "required",
				RetentionPolicy: "permanent",
			},
			zones.Security: {
				Description: "Storage for security policies and audit logs",
				AccessLevels: AccessLevels{
					Read:   []string{"admin", "security_team", "compliance_officer"},
					Write:  []string{"admin", "system"},
					Delete: []string{"admin"},
				},
				Encryption:      "required",
				RetentionPolicy: "5 years",
			},
		},
		DataClassification: map[string]Classification{
			"public": {
				Description:       "Data that can be freely shared",
				AccessRestriction: "none",
				Encryption:        "optional",
			},
			"internal": {
				Description:       "Data for internal use only",
				AccessRestriction: "authenticated_users",
				Encryption:        "required",
			},
			"confidential": {
				Description:       "Sensitive business data",
				AccessRestriction: "authorized_roles",
				Encryption:        "required",
				MaskFields:        []string{"email", "phone", "address"},
			},
			"restricted": {
				Description:       "Highly sensitive data with regulatory implications",
				AccessRestriction: "explicit_grants",
				Encryption:        "required",
				MaskFields:        []string{"personal_identifiers", "financial_data", "health_data"},
				AuditAccess:       "required",
			},
		},
		Roles: map[string]Role{
			"admin": {
				Description: "Full access to all zones and data",
				Members:     []string{"data_lake_admin", "chief_data_officer"},
			},
			"data_engineer": {
				Description: "Build and maintain the data lake infrastructure",
				Members:     []string{"etl_developers", "integration_specialists"},
			},
			"data_scientist": {
				Description: "Develop models and advanced analytics",
				Members:     []string{"ml_engineers", "research_scientists"},
			},
			"data_analyst": {
				Description: "Perform business analysis and reporting",
				Members:     []string{"business_analysts", "report_developers"},
			},
			"business_user": {
				Description: "Consume dashboards and analysis",
				Members:     []string{"department_managers", "executive_team", "functional_teams"},
			},
			"governance_team": {
				Description: "Oversee data governance and quality",
				Members:     []string{"data_stewards", "data_governance_committee"},
			},
			"security_team": {
				Description: "Ensure data security and access controls",
				Members:     []string{"security_analysts", "compliance_officers"},
			},
		},
	}
}

// Publisher writes security policies to the security zone.
type Publisher struct {
	objects store.ObjectStore
	bucket  string
	logger  *slog.Logger
}

// NewPublisher creates a Publisher targeting the given security zone
// bucket.
func NewPublisher(objects store.ObjectStore, bucket string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{objects: objects, bucket: bucket, logger: logger}
}

// Publish serializes the policy to YAML and stores it under PolicyKey.
func (p *Publisher) Publish(ctx context.Context, policy *SecurityPolicy) error {
	data, err := yaml.Marshal(policy)
	if err != nil {
		return fmt.Errorf("failed to serialize security policy: %w", err)
	}
	if err := p.objects.EnsureBucket(ctx, p.bucket); err != nil {
		return fmt.Errorf("failed to ensure security bucket: %w", err)
	}
	if err := p.objects.Put(ctx, p.bucket, PolicyKey, data, "application/yaml"); err != nil {
		return fmt.Errorf("failed to store security policy: %w", err)
	}
	p.logger.Info("security policy published", "bucket", p.bucket, "key", PolicyKey)
	return nil
}

// Load reads the published policy back from the security zone.
func (p *Publisher) Load(ctx context.Context) (*SecurityPolicy, error) {
	data, err := p.objects.Get(ctx, p.bucket, PolicyKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read security policy: %w", err)
	}
	var policy SecurityPolicy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return nil, fmt.Errorf("failed to parse security policy: %w", err)
	}
	return &policy, nil
}
