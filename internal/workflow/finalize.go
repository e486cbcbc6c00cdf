package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// FinalizeNode returns a state node that summarizes the assessment into
// the RunResult extracted by Execute.
func FinalizeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		st, err := extractAssessState(s)
		if err != nil {
			return s, fmt.Errorf("finalize: %w", err)
		}

		accepted, rejected, middle := tally(st.Decisions)

		result := RunResult{
			RunID:       st.Run.ID,
			Applicants:  len(st.Applicants),
			Accepted:    accepted,
			Rejected:    rejected,
			Middle:      middle,
			Ranked:      st.Ranked,
			CompletedAt: time.Now(),
		}

		rt.Logger.InfoContext(
			ctx, "finalize node complete",
			"run_id", result.RunID,
			"applicants", result.Applicants,
			"accepted", result.Accepted,
			"rejected", result.Rejected,
			"middle", result.Middle,
			"ranked", result.Ranked,
		)

		s = s.Set(KeyRunResult, result)
		return s, nil
	})
}
