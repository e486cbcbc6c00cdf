// Package evaluations implements the per-dimension evaluation domain. It
// provides types, data access, and persistence for the scores the evaluator
// agents produce, one row per applicant and dimension.
package evaluations

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Dimension identifies one of the evaluation axes.
type Dimension string

const (
	DimensionEnglish    Dimension = "english"
	DimensionDegree     Dimension = "degree"
	DimensionAcademic   Dimension = "academic"
	DimensionExperience Dimension = "experience"
	DimensionPSRL       Dimension = "ps_rl"
)

// Dimensions lists every evaluation axis in canonical order.
var Dimensions = []Dimension{
	DimensionEnglish,
	DimensionDegree,
	DimensionAcademic,
	DimensionExperience,
	DimensionPSRL,
}

// Valid reports whether d names a known dimension.
func (d Dimension) Valid() bool {
	switch d {
	case DimensionEnglish, DimensionDegree, DimensionAcademic,
		DimensionExperience, DimensionPSRL:
		return true
	}
	return false
}

// Evaluation represents a stored evaluation result for one applicant and
// dimension. It mirrors the applicant_evaluations table schema.
type Evaluation struct {
	ID           uuid.UUID       `json:"id"`
	ApplicantID  uuid.UUID       `json:"applicant_id"`
	RunID        uuid.UUID       `json:"run_id"`
	Dimension    Dimension       `json:"dimension"`
	Score        *float64        `json:"score"`
	Details      json.RawMessage `json:"details"`
	Evidence     []string        `json:"evidence"`
	Error        *string         `json:"error"`
	ModelName    string          `json:"model_name"`
	ProviderName string          `json:"provider_name"`
	EvaluatedAt  time.Time       `json:"evaluated_at"`
}

// Result is the transient outcome of one evaluator invocation, before
// persistence. A nil Score with a non-empty Error marks a failed dimension;
// a nil Score with an empty Error means the evaluator abstained.
type Result struct {
	Dimension Dimension       `json:"dimension"`
	Score     *float64        `json:"score"`
	Details   json.RawMessage `json:"details"`
	Evidence  []string        `json:"evidence"`
	Error     string          `json:"error,omitempty"`
}

// Failed reports whether the evaluator could not produce a usable result.
func (r Result) Failed() bool {
	return r.Error != ""
}

// RecordCommand carries one result into storage.
type RecordCommand struct {
	ApplicantID  uuid.UUID `json:"applicant_id"`
	RunID        uuid.UUID `json:"run_id"`
	Result       Result    `json:"result"`
	ModelName    string    `json:"model_name"`
	ProviderName string    `json:"provider_name"`
}
