package runs

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/pkg/query"
	"github.com/JaimeStill/cohort/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "assessment_runs", "r").
	Project("id", "ID").
	Project("name", "Name").
	Project("rule_set_id", "RuleSetID").
	Project("custom_requirements", "CustomRequirements").
	Project("agent_models", "AgentModels").
	Project("status", "Status").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for run queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	Status    *string    `json:"status,omitempty"`
	RuleSetID *uuid.UUID `json:"rule_set_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("RuleSetID", f.RuleSetID)
}

func scanRun(s repository.Scanner) (Run, error) {
	var r Run
	var requirementsRaw, modelsRaw []byte

	err := s.Scan(
		&r.ID,
		&r.Name,
		&r.RuleSetID,
		&requirementsRaw,
		&modelsRaw,
		&r.Status,
		&r.CreatedAt,
		&r.UpdatedAt,
	)

	if err != nil {
		return r, err
	}

	if len(requirementsRaw) > 0 {
		if err := json.Unmarshal(requirementsRaw, &r.CustomRequirements); err != nil {
			return r, fmt.Errorf("unmarshal custom_requirements: %w", err)
		}
	}

	if len(modelsRaw) > 0 {
		if err := json.Unmarshal(modelsRaw, &r.AgentModels); err != nil {
			return r, fmt.Errorf("unmarshal agent_models: %w", err)
		}
	}

	if r.CustomRequirements == nil {
		r.CustomRequirements = []string{}
	}

	if r.AgentModels == nil {
		r.AgentModels = map[string]string{}
	}

	return r, nil
}
