package ranking

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
)

// Comparator performs one head-to-head comparison between two applicant
// profiles. Implementations own retry policy; a hard error is treated as a
// tie by the refiner.
type Comparator interface {
	Compare(ctx context.Context, a, b Profile) (Verdict, error)
}

// RefineConfig controls the pairwise refinement loop.
type RefineConfig struct {
	// Passes is the number of full adjacent-pair sweeps.
	Passes int

	// Epsilon is the weighted-score gap under which two neighbors count
	// as too close to call from scores alone.
	Epsilon float64
}

// Standing is one applicant's position in the in-memory order being
// refined.
type Standing struct {
	ApplicantID uuid.UUID
	Score       float64
	Profile     Profile
}

// Refiner runs the pairwise refinement loop over the middle band.
type Refiner struct {
	comparator Comparator
	rankings   System
	logger     *slog.Logger
}

func NewRefiner(comparator Comparator, rankings System, logger *slog.Logger) *Refiner {
	return &Refiner{
		comparator: comparator,
		rankings:   rankings,
		logger:     logger.With("system", "refiner"),
	}
}

// Refine sweeps adjacent pairs whose scores are within epsilon, asks the
// comparator to break the tie, and swaps scores when the comparator
// contradicts the current order. Comparisons run sequentially so each pass
// sees the effects of earlier swaps. Dense ranks are re-persisted after
// every pass.
func (r *Refiner) Refine(ctx context.Context, runID uuid.UUID, standings []Standing, cfg RefineConfig) error {
	if err := r.rankings.ClearComparisons(ctx, runID); err != nil {
		return err
	}

	for pass := 0; pass < cfg.Passes; pass++ {
		sortStandings(standings)

		for i := 0; i < len(standings)-1; i++ {
			a := &standings[i]
			b := &standings[i+1]

			if !IsClose(a.Score, b.Score, cfg.Epsilon) {
				continue
			}

			verdict, err := r.comparator.Compare(ctx, a.Profile, b.Profile)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.logger.Warn("comparison failed, treating as tie",
					"applicant_a", a.ApplicantID,
					"applicant_b", b.ApplicantID,
					"error", err,
				)
				verdict = Verdict{Winner: WinnerTie, Reason: err.Error()}
			}

			if _, err := r.rankings.RecordComparison(ctx, ComparisonCommand{
				RunID:        runID,
				ApplicantAID: a.ApplicantID,
				ApplicantBID: b.ApplicantID,
				Winner:       verdict.Winner,
				Reason:       verdict.Reason,
				PassIndex:    pass,
			}); err != nil {
				return err
			}

			switch {
			case verdict.Winner == WinnerA && a.Score < b.Score:
				a.Score, b.Score = b.Score, a.Score
			case verdict.Winner == WinnerB && b.Score < a.Score:
				a.Score, b.Score = b.Score, a.Score
			}

			noteA := fmt.Sprintf("BT vs %s: %s (%s).", b.ApplicantID, verdict.Winner, verdict.Reason)
			if err := r.rankings.AppendNote(ctx, a.ApplicantID, noteA); err != nil {
				return err
			}

			noteB := fmt.Sprintf("BT vs %s: %s (%s).", a.ApplicantID, verdict.Winner, verdict.Reason)
			if err := r.rankings.AppendNote(ctx, b.ApplicantID, noteB); err != nil {
				return err
			}
		}

		sortStandings(standings)
		for i, s := range standings {
			if err := r.rankings.SetRank(ctx, s.ApplicantID, i+1); err != nil {
				return err
			}
		}

		r.logger.Info("refinement pass complete",
			"run_id", runID,
			"pass", pass+1,
			"standings", len(standings),
		)
	}

	return nil
}

// sortStandings orders by score descending. The sort is stable so equal
// scores keep their current relative order between passes.
func sortStandings(standings []Standing) {
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})
}
