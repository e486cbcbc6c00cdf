package gating

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/pkg/query"
	"github.com/JaimeStill/cohort/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "applicant_gating", "g").
	Project("id", "ID").
	Project("applicant_id", "ApplicantID").
	Project("run_id", "RunID").
	Project("decision", "Decision").
	Project("reasons", "Reasons").
	Project("decided_at", "DecidedAt")

var defaultSort = query.SortField{
	Field:      "DecidedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for gating queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	ApplicantID *uuid.UUID `json:"applicant_id,omitempty"`
	RunID       *uuid.UUID `json:"run_id,omitempty"`
	Decision    *Decision  `json:"decision,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ApplicantID", f.ApplicantID).
		WhereEquals("RunID", f.RunID).
		WhereEquals("Decision", f.Decision)
}

func scanGating(s repository.Scanner) (Gating, error) {
	var g Gating
	var reasonsRaw []byte

	err := s.Scan(
		&g.ID,
		&g.ApplicantID,
		&g.RunID,
		&g.Decision,
		&reasonsRaw,
		&g.DecidedAt,
	)

	if err != nil {
		return g, err
	}

	if len(reasonsRaw) > 0 {
		if err := json.Unmarshal(reasonsRaw, &g.Reasons); err != nil {
			return g, fmt.Errorf("unmarshal reasons: %w", err)
		}
	}

	if g.Reasons == nil {
		g.Reasons = []string{}
	}

	return g, nil
}
