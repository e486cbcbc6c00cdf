// Package ranking implements weighted scoring and iterative pairwise
// refinement for middle-band applicants. Initial standings come from a
// fixed-weight combination of dimension scores; close neighbors are then
// re-examined head-to-head over a configurable number of passes.
package ranking

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/internal/evaluations"
)

// Weights is the fixed contribution of each dimension to the weighted
// total. The values sum to 1.0.
var Weights = map[evaluations.Dimension]float64{
	evaluations.DimensionEnglish:    0.10,
	evaluations.DimensionDegree:     0.50,
	evaluations.DimensionAcademic:   0.15,
	evaluations.DimensionExperience: 0.15,
	evaluations.DimensionPSRL:       0.10,
}

// WeightedTotal combines dimension scores into a single value. Missing
// scores contribute nothing rather than zero, so an applicant is not
// penalized for a failed dimension beyond losing its weight. Each score is
// clamped to [0, 10] and the result is rounded to four decimal places.
func WeightedTotal(scores map[evaluations.Dimension]*float64) float64 {
	total := 0.0
	for dim, weight := range Weights {
		val := scores[dim]
		if val == nil {
			continue
		}
		total += weight * math.Max(0.0, math.Min(10.0, *val))
	}
	return round4(total)
}

// IsClose reports whether two weighted totals are within eps of each other.
func IsClose(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// Pairwise comparison outcomes.
const (
	WinnerA   = "A"
	WinnerB   = "B"
	WinnerTie = "tie"
)

// Verdict is the outcome of one head-to-head comparison.
type Verdict struct {
	Winner string `json:"winner"`
	Reason string `json:"reason"`
}

// ProfileEntry is the compact view of one dimension result shown to the
// comparator.
type ProfileEntry struct {
	Score   *float64        `json:"score"`
	Details json.RawMessage `json:"details"`
}

// Profile is the full compact evaluation view for one applicant.
type Profile map[evaluations.Dimension]ProfileEntry

// BuildProfile compacts stored evaluations into comparator input.
func BuildProfile(evals map[evaluations.Dimension]evaluations.Evaluation) Profile {
	p := make(Profile, len(evals))
	for dim, e := range evals {
		p[dim] = ProfileEntry{Score: e.Score, Details: e.Details}
	}
	return p
}

// Ranking represents a stored standing for one applicant. It mirrors the
// applicant_ranking table schema.
type Ranking struct {
	ID            uuid.UUID `json:"id"`
	ApplicantID   uuid.UUID `json:"applicant_id"`
	RunID         uuid.UUID `json:"run_id"`
	WeightedScore float64   `json:"weighted_score"`
	FinalRank     int       `json:"final_rank"`
	Notes         string    `json:"notes"`
	RankedAt      time.Time `json:"ranked_at"`
}

// RecordCommand carries an initial standing into storage.
type RecordCommand struct {
	ApplicantID   uuid.UUID `json:"applicant_id"`
	RunID         uuid.UUID `json:"run_id"`
	WeightedScore float64   `json:"weighted_score"`
	FinalRank     int       `json:"final_rank"`
}

// Comparison represents a stored pairwise comparison. It mirrors the
// pairwise_comparisons table schema.
type Comparison struct {
	ID           uuid.UUID `json:"id"`
	RunID        uuid.UUID `json:"run_id"`
	ApplicantAID uuid.UUID `json:"applicant_a_id"`
	ApplicantBID uuid.UUID `json:"applicant_b_id"`
	Winner       string    `json:"winner"`
	Reason       string    `json:"reason"`
	PassIndex    int       `json:"pass_index"`
	ComparedAt   time.Time `json:"compared_at"`
}

// ComparisonCommand carries one comparison outcome into storage.
type ComparisonCommand struct {
	RunID        uuid.UUID `json:"run_id"`
	ApplicantAID uuid.UUID `json:"applicant_a_id"`
	ApplicantBID uuid.UUID `json:"applicant_b_id"`
	Winner       string    `json:"winner"`
	Reason       string    `json:"reason"`
	PassIndex    int       `json:"pass_index"`
}
