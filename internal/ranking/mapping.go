package ranking

import (
	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/pkg/query"
	"github.com/JaimeStill/cohort/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "applicant_ranking", "r").
	Project("id", "ID").
	Project("applicant_id", "ApplicantID").
	Project("run_id", "RunID").
	Project("weighted_score", "WeightedScore").
	Project("final_rank", "FinalRank").
	Project("notes", "Notes").
	Project("ranked_at", "RankedAt")

var defaultSort = query.SortField{
	Field: "FinalRank",
}

var comparisonProjection = query.
	NewProjectionMap("public", "pairwise_comparisons", "pc").
	Project("id", "ID").
	Project("run_id", "RunID").
	Project("applicant_a_id", "ApplicantAID").
	Project("applicant_b_id", "ApplicantBID").
	Project("winner", "Winner").
	Project("reason", "Reason").
	Project("pass_index", "PassIndex").
	Project("compared_at", "ComparedAt")

var comparisonSort = query.SortField{
	Field: "ComparedAt",
}

// Filters contains optional filtering criteria for ranking queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	ApplicantID *uuid.UUID `json:"applicant_id,omitempty"`
	RunID       *uuid.UUID `json:"run_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ApplicantID", f.ApplicantID).
		WhereEquals("RunID", f.RunID)
}

func scanRanking(s repository.Scanner) (Ranking, error) {
	var r Ranking

	err := s.Scan(
		&r.ID,
		&r.ApplicantID,
		&r.RunID,
		&r.WeightedScore,
		&r.FinalRank,
		&r.Notes,
		&r.RankedAt,
	)

	return r, err
}

func scanComparison(s repository.Scanner) (Comparison, error) {
	var c Comparison

	err := s.Scan(
		&c.ID,
		&c.RunID,
		&c.ApplicantAID,
		&c.ApplicantBID,
		&c.Winner,
		&c.Reason,
		&c.PassIndex,
		&c.ComparedAt,
	)

	return c, err
}
