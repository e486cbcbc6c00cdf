package workflow

import (
	"context"
	"fmt"
	"sort"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/cohort/internal/evaluations"
	"github.com/JaimeStill/cohort/internal/gating"
	"github.com/JaimeStill/cohort/internal/ranking"
)

// RankNode returns a state node that ranks the middle band: weighted
// totals produce the initial standings, then the pairwise refiner
// re-examines close neighbors head-to-head.
func RankNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		st, err := extractAssessState(s)
		if err != nil {
			return s, fmt.Errorf("rank: %w", err)
		}

		standings, err := initialStandings(ctx, rt, st)
		if err != nil {
			return s, fmt.Errorf("rank: %w", err)
		}

		if len(standings) > 0 {
			refiner := ranking.NewRefiner(rt.Comparator, rt.Rankings, rt.Logger)
			cfg := ranking.RefineConfig{
				Passes:  rt.Settings.PairwisePasses,
				Epsilon: rt.Settings.PairwiseEpsilon,
			}

			if err := refiner.Refine(ctx, st.Run.ID, standings, cfg); err != nil {
				return s, fmt.Errorf("rank: %w: %w", ErrRankFailed, err)
			}
		}

		st.Ranked = len(standings)

		rt.Logger.InfoContext(
			ctx, "rank node complete",
			"run_id", st.Run.ID,
			"ranked", st.Ranked,
		)

		s = s.Set(KeyAssessState, *st)
		return s, nil
	})
}

// initialStandings computes weighted totals for the middle band, persists
// the initial dense ranks in score order, and returns the standings the
// refiner will sweep.
func initialStandings(
	ctx context.Context,
	rt *Runtime,
	st *AssessmentState,
) ([]ranking.Standing, error) {
	var standings []ranking.Standing

	for _, applicant := range st.Applicants {
		if st.Decisions[applicant.ID] != gating.DecisionMiddle {
			continue
		}

		evals, err := rt.Evaluations.FindByApplicant(ctx, applicant.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: load evaluations: %w", ErrRankFailed, err)
		}

		scores := make(map[evaluations.Dimension]*float64, len(evals))
		for dim, e := range evals {
			scores[dim] = e.Score
		}

		standings = append(standings, ranking.Standing{
			ApplicantID: applicant.ID,
			Score:       ranking.WeightedTotal(scores),
			Profile:     ranking.BuildProfile(evals),
		})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})

	for i, standing := range standings {
		if _, err := rt.Rankings.Record(ctx, ranking.RecordCommand{
			ApplicantID:   standing.ApplicantID,
			RunID:         st.Run.ID,
			WeightedScore: standing.Score,
			FinalRank:     i + 1,
		}); err != nil {
			return nil, fmt.Errorf("%w: record standing: %w", ErrRankFailed, err)
		}
	}

	return standings, nil
}
