// Package workflow implements the assessment pipeline for Cohort.
// It provides the 5-node state graph (init → evaluate → gate → rank? →
// finalize) that carries a run from created to completed: loading the run
// and its rule set, fanning evaluators out per applicant, applying the
// gating rules, and ranking the middle band.
package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/internal/applicants"
	"github.com/JaimeStill/cohort/internal/evaluators"
	"github.com/JaimeStill/cohort/internal/gating"
	"github.com/JaimeStill/cohort/internal/runs"
)

const (
	KeyRunID       = "run_id"
	KeyAssessState = "assessment_state"
	KeyRunResult   = "run_result"
)

// AssessmentState holds the running assessment accumulated across nodes.
type AssessmentState struct {
	Run        *runs.Run                     `json:"run"`
	Base       evaluators.RunContext         `json:"-"`
	Applicants []applicants.Applicant        `json:"applicants"`
	Decisions  map[uuid.UUID]gating.Decision `json:"decisions"`
	Ranked     int                           `json:"ranked"`
}

// HasMiddle reports whether any applicant landed in the middle band.
func (s *AssessmentState) HasMiddle() bool {
	for _, d := range s.Decisions {
		if d == gating.DecisionMiddle {
			return true
		}
	}
	return false
}

// RunResult is the final output from an assessment workflow execution.
type RunResult struct {
	RunID       uuid.UUID `json:"run_id"`
	Applicants  int       `json:"applicants"`
	Accepted    int       `json:"accepted"`
	Rejected    int       `json:"rejected"`
	Middle      int       `json:"middle"`
	Ranked      int       `json:"ranked"`
	CompletedAt time.Time `json:"completed_at"`
}
