package evaluations

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/pkg/query"
	"github.com/JaimeStill/cohort/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "applicant_evaluations", "e").
	Project("id", "ID").
	Project("applicant_id", "ApplicantID").
	Project("run_id", "RunID").
	Project("dimension", "Dimension").
	Project("score", "Score").
	Project("details", "Details").
	Project("evidence", "Evidence").
	Project("error", "Error").
	Project("model_name", "ModelName").
	Project("provider_name", "ProviderName").
	Project("evaluated_at", "EvaluatedAt")

var defaultSort = query.SortField{
	Field:      "EvaluatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for evaluation queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	ApplicantID *uuid.UUID `json:"applicant_id,omitempty"`
	RunID       *uuid.UUID `json:"run_id,omitempty"`
	Dimension   *Dimension `json:"dimension,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ApplicantID", f.ApplicantID).
		WhereEquals("RunID", f.RunID).
		WhereEquals("Dimension", f.Dimension)
}

func scanEvaluation(s repository.Scanner) (Evaluation, error) {
	var e Evaluation
	var evidenceRaw []byte

	err := s.Scan(
		&e.ID,
		&e.ApplicantID,
		&e.RunID,
		&e.Dimension,
		&e.Score,
		&e.Details,
		&evidenceRaw,
		&e.Error,
		&e.ModelName,
		&e.ProviderName,
		&e.EvaluatedAt,
	)

	if err != nil {
		return e, err
	}

	if len(evidenceRaw) > 0 {
		if err := json.Unmarshal(evidenceRaw, &e.Evidence); err != nil {
			return e, fmt.Errorf("unmarshal evidence: %w", err)
		}
	}

	if e.Evidence == nil {
		e.Evidence = []string{}
	}

	return e, nil
}
