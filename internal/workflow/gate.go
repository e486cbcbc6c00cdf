package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/cohort/internal/evaluations"
	"github.com/JaimeStill/cohort/internal/gating"
)

// GateNode returns a state node that applies the gating rules to every
// applicant's stored evaluations and persists the decisions. Gating is a
// pure rule pass; no model calls happen here.
func GateNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		st, err := extractAssessState(s)
		if err != nil {
			return s, fmt.Errorf("gate: %w", err)
		}

		st.Decisions = make(map[uuid.UUID]gating.Decision, len(st.Applicants))

		for _, applicant := range st.Applicants {
			evals, err := rt.Evaluations.FindByApplicant(ctx, applicant.ID)
			if err != nil {
				return s, fmt.Errorf("gate: %w: load evaluations: %w", ErrGateFailed, err)
			}

			decision, reasons := gating.Decide(resultsView(evals))

			if _, err := rt.Gating.Record(ctx, gating.RecordCommand{
				ApplicantID: applicant.ID,
				RunID:       st.Run.ID,
				Decision:    decision,
				Reasons:     reasons,
			}); err != nil {
				return s, fmt.Errorf("gate: %w: record decision: %w", ErrGateFailed, err)
			}

			st.Decisions[applicant.ID] = decision
		}

		accepted, rejected, middle := tally(st.Decisions)
		rt.Logger.InfoContext(
			ctx, "gate node complete",
			"run_id", st.Run.ID,
			"accepted", accepted,
			"rejected", rejected,
			"middle", middle,
		)

		s = s.Set(KeyAssessState, *st)
		return s, nil
	})
}

// resultsView converts stored evaluations back into the transient result
// shape the gating rules read.
func resultsView(
	evals map[evaluations.Dimension]evaluations.Evaluation,
) map[evaluations.Dimension]evaluations.Result {
	results := make(map[evaluations.Dimension]evaluations.Result, len(evals))
	for dim, e := range evals {
		r := evaluations.Result{
			Dimension: dim,
			Score:     e.Score,
			Details:   e.Details,
			Evidence:  e.Evidence,
		}
		if e.Error != nil {
			r.Error = *e.Error
		}
		results[dim] = r
	}
	return results
}

func tally(decisions map[uuid.UUID]gating.Decision) (accepted, rejected, middle int) {
	for _, d := range decisions {
		switch d {
		case gating.DecisionAccept:
			accepted++
		case gating.DecisionReject:
			rejected++
		case gating.DecisionMiddle:
			middle++
		}
	}
	return accepted, rejected, middle
}
