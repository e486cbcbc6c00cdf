// Package rules implements the admission rule set domain: per-dimension
// checklists, the target degree class, and the English language policy an
// assessment run evaluates against.
package rules

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/internal/evaluations"
)

// DefaultDegreeClass is the target UK class applied when a rule set does
// not specify one.
const DefaultDegreeClass = "UPPER_SECOND"

// EnglishPolicy describes exemptions and per-level test requirements for
// the English dimension.
type EnglishPolicy struct {
	NationalityExemptCountries    []string       `json:"nationality_exempt_countries"`
	DegreeObtainedExemptCountries []string       `json:"degree_obtained_exempt_countries"`
	Levels                        map[string]any `json:"levels"`
}

// RuleSet represents one stored admission rule set. It mirrors the
// admission_rule_sets table schema.
type RuleSet struct {
	ID            uuid.UUID                          `json:"id"`
	Name          string                             `json:"name"`
	Description   *string                            `json:"description"`
	DegreeClass   string                             `json:"degree_class"`
	EnglishLevel  *string                            `json:"english_level"`
	Checklists    map[evaluations.Dimension][]string `json:"checklists"`
	EnglishPolicy *EnglishPolicy                     `json:"english_policy"`
	CreatedAt     time.Time                          `json:"created_at"`
}

// Checklist returns the checklist items for one dimension, never nil.
func (rs *RuleSet) Checklist(dim evaluations.Dimension) []string {
	items := rs.Checklists[dim]
	if items == nil {
		return []string{}
	}
	return items
}

// CreateCommand carries the data needed to store a rule set.
type CreateCommand struct {
	Name          string                             `json:"name"`
	Description   *string                            `json:"description"`
	DegreeClass   string                             `json:"degree_class"`
	EnglishLevel  *string                            `json:"english_level"`
	Checklists    map[evaluations.Dimension][]string `json:"checklists"`
	EnglishPolicy *EnglishPolicy                     `json:"english_policy"`
}

// MergeChecklists prepends classified user-defined requirements to the
// rule-derived checklists so they read as higher priority.
func MergeChecklists(
	base map[evaluations.Dimension][]string,
	custom map[evaluations.Dimension][]string,
) map[evaluations.Dimension][]string {
	merged := make(map[evaluations.Dimension][]string, len(evaluations.Dimensions))

	for _, dim := range evaluations.Dimensions {
		items := append([]string{}, custom[dim]...)
		items = append(items, base[dim]...)
		merged[dim] = items
	}

	return merged
}
