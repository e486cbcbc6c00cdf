package rules

import (
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/cohort/internal/evaluations"
	"github.com/JaimeStill/cohort/pkg/query"
	"github.com/JaimeStill/cohort/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "admission_rule_sets", "rs").
	Project("id", "ID").
	Project("name", "Name").
	Project("description", "Description").
	Project("degree_class", "DegreeClass").
	Project("english_level", "EnglishLevel").
	Project("checklists", "Checklists").
	Project("english_policy", "EnglishPolicy").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field: "Name",
}

// Filters contains optional filtering criteria for rule set queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	Name *string `json:"name,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.WhereEquals("Name", f.Name)
}

func scanRuleSet(s repository.Scanner) (RuleSet, error) {
	var rs RuleSet
	var checklistsRaw, policyRaw []byte

	err := s.Scan(
		&rs.ID,
		&rs.Name,
		&rs.Description,
		&rs.DegreeClass,
		&rs.EnglishLevel,
		&checklistsRaw,
		&policyRaw,
		&rs.CreatedAt,
	)

	if err != nil {
		return rs, err
	}

	if len(checklistsRaw) > 0 {
		if err := json.Unmarshal(checklistsRaw, &rs.Checklists); err != nil {
			return rs, fmt.Errorf("unmarshal checklists: %w", err)
		}
	}

	if rs.Checklists == nil {
		rs.Checklists = map[evaluations.Dimension][]string{}
	}

	if len(policyRaw) > 0 {
		var policy EnglishPolicy
		if err := json.Unmarshal(policyRaw, &policy); err != nil {
			return rs, fmt.Errorf("unmarshal english_policy: %w", err)
		}
		rs.EnglishPolicy = &policy
	}

	return rs, nil
}
