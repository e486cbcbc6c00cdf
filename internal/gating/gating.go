// Package gating implements the post-evaluation gating engine: a pure rule
// pass over the per-dimension results that sorts applicants into clear
// accepts, hard rejects, and the middle band that proceeds to ranking.
package gating

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/internal/evaluations"
)

// Decision is the gating outcome for an applicant.
type Decision string

const (
	DecisionAccept Decision = "ACCEPT"
	DecisionReject Decision = "REJECT"
	DecisionMiddle Decision = "MIDDLE"
)

// Gating represents a stored gating decision. It mirrors the
// applicant_gating table schema.
type Gating struct {
	ID          uuid.UUID `json:"id"`
	ApplicantID uuid.UUID `json:"applicant_id"`
	RunID       uuid.UUID `json:"run_id"`
	Decision    Decision  `json:"decision"`
	Reasons     []string  `json:"reasons"`
	DecidedAt   time.Time `json:"decided_at"`
}

// RecordCommand carries a gating decision into storage.
type RecordCommand struct {
	ApplicantID uuid.UUID `json:"applicant_id"`
	RunID       uuid.UUID `json:"run_id"`
	Decision    Decision  `json:"decision"`
	Reasons     []string  `json:"reasons"`
}

// degreeFacts is the slice of the degree evaluation details the gate reads.
// QSRank is a float so a model emitting "800.0" still parses.
type degreeFacts struct {
	MeetsRequirement *bool    `json:"meets_requirement"`
	QSRank           *float64 `json:"qs_rank"`
}

// englishFacts is the slice of the English evaluation details the gate reads.
type englishFacts struct {
	Exemption   bool     `json:"exemption"`
	TestOverall *float64 `json:"test_overall"`
}

// Decide applies the gating rules to an applicant's dimension results.
// Rejects are checked first and compound; the accept rule only fires when
// nothing rejected. Everything else lands in the middle band.
func Decide(results map[evaluations.Dimension]evaluations.Result) (Decision, []string) {
	decision := DecisionMiddle
	reasons := []string{}

	degree, hasDegree := parseFacts[degreeFacts](results, evaluations.DimensionDegree)
	english, hasEnglish := parseFacts[englishFacts](results, evaluations.DimensionEnglish)

	if hasDegree && degree.MeetsRequirement != nil && !*degree.MeetsRequirement {
		decision = DecisionReject
		reasons = append(reasons, "Degree below requirement")
	}

	if hasDegree && degree.QSRank != nil && *degree.QSRank > 800 {
		decision = DecisionReject
		reasons = append(reasons, "QS rank below threshold")
	}

	if hasEnglish && !english.Exemption && english.TestOverall == nil {
		decision = DecisionReject
		reasons = append(reasons, "No English test and no exemption")
	}

	if decision != DecisionReject {
		goodQS := hasDegree && degree.QSRank != nil && *degree.QSRank <= 100
		degreeResult := results[evaluations.DimensionDegree]
		strongDegree := degreeResult.Score != nil && *degreeResult.Score >= 8

		if goodQS && strongDegree {
			decision = DecisionAccept
			reasons = append(reasons, "High QS and strong degree")
		}
	}

	return decision, reasons
}

// parseFacts extracts a typed view of one dimension's details. A missing
// dimension or unparseable details payload yields ok=false, which the rules
// treat as the fact being unavailable.
func parseFacts[T any](results map[evaluations.Dimension]evaluations.Result, dim evaluations.Dimension) (T, bool) {
	var facts T

	r, ok := results[dim]
	if !ok || len(r.Details) == 0 {
		return facts, false
	}

	if err := json.Unmarshal(r.Details, &facts); err != nil {
		return facts, false
	}

	return facts, true
}
