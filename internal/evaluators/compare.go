package evaluators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/cohort/internal/judge"
	"github.com/JaimeStill/cohort/internal/ranking"
)

const compareInstructions = "You compare two applicants using structured scores and evidence from multiple dimensions (english, degree, academic, experience, ps_rl). " +
	"Choose which applicant is better overall for admission based on the provided weights (english 10%, degree 50%, academic 15%, experience 15%, ps_rl 10%). " +
	"Return strict JSON: {winner: 'A'|'B'|'tie', reason: string}."

// Comparator implements pairwise head-to-head judgment calls for ranking
// refinement. A double contract violation resolves to a tie rather than an
// error so refinement always makes progress.
type Comparator struct {
	invoker   judge.Invoker
	modelHint string
	logger    *slog.Logger
}

func NewComparator(invoker judge.Invoker, modelHint string, logger *slog.Logger) *Comparator {
	return &Comparator{
		invoker:   invoker,
		modelHint: modelHint,
		logger:    logger.With("system", "comparator"),
	}
}

func (c *Comparator) Compare(ctx context.Context, a, b ranking.Profile) (ranking.Verdict, error) {
	content, err := json.Marshal(map[string]ranking.Profile{"A": a, "B": b})
	if err != nil {
		return ranking.Verdict{}, fmt.Errorf("marshal profiles: %w", err)
	}

	req := judge.Request{
		Role:         "a senior admissions officer adjudicating between two comparable applicants",
		Instructions: compareInstructions,
		Content:      string(content),
		ModelHint:    c.modelHint,
	}

	verdict, _, err := invokeContract(ctx, c.invoker, req,
		func(v *ranking.Verdict) bool {
			switch v.Winner {
			case ranking.WinnerA, ranking.WinnerB, ranking.WinnerTie:
				return true
			}
			return false
		})
	if err != nil {
		if errors.Is(err, ErrContractViolated) {
			c.logger.Warn("comparison contract violated, defaulting to tie")
			return ranking.Verdict{Winner: ranking.WinnerTie, Reason: "undecided"}, nil
		}
		return ranking.Verdict{}, err
	}

	return verdict, nil
}
