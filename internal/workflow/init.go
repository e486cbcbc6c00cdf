package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/cohort/internal/evaluations"
	"github.com/JaimeStill/cohort/internal/evaluators"
	"github.com/JaimeStill/cohort/internal/gating"
	"github.com/JaimeStill/cohort/internal/rules"
	"github.com/JaimeStill/cohort/internal/runs"
)

// classifierHintKey selects the model override for the custom-requirements
// classifier from a run's agent model map.
const classifierHintKey = "classifier"

// InitNode returns a state node that loads the run and its rule set,
// classifies any custom requirements into per-dimension checklists, builds
// the base run context shared by every applicant, and loads the roster.
func InitNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		runID, err := extractRunID(s)
		if err != nil {
			return s, fmt.Errorf("init: %w", err)
		}

		run, err := rt.Runs.Find(ctx, runID)
		if err != nil {
			return s, fmt.Errorf("init: %w: %w", ErrRunNotFound, err)
		}

		ruleSet, err := loadRuleSet(ctx, rt, run)
		if err != nil {
			return s, fmt.Errorf("init: %w", err)
		}

		base := buildRunContext(ctx, rt, run, ruleSet)

		roster, err := rt.Applicants.ListByRun(ctx, runID)
		if err != nil {
			return s, fmt.Errorf("init: list applicants: %w", err)
		}

		rt.Logger.InfoContext(
			ctx, "init node complete",
			"run_id", runID,
			"rule_set", ruleSet.Name,
			"applicants", len(roster),
			"custom_requirements", len(run.CustomRequirements),
		)

		s = s.Set(KeyAssessState, AssessmentState{
			Run:        run,
			Base:       base,
			Applicants: roster,
			Decisions:  map[uuid.UUID]gating.Decision{},
		})

		return s, nil
	})
}

// loadRuleSet resolves the run's rule set. A run without one assesses
// against an empty rule set at the default degree class.
func loadRuleSet(ctx context.Context, rt *Runtime, run *runs.Run) (*rules.RuleSet, error) {
	if run.RuleSetID == nil {
		return &rules.RuleSet{
			Name:        "default",
			DegreeClass: rules.DefaultDegreeClass,
		}, nil
	}

	ruleSet, err := rt.Rules.Find(ctx, *run.RuleSetID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuleSetNotFound, err)
	}

	return ruleSet, nil
}

func buildRunContext(
	ctx context.Context,
	rt *Runtime,
	run *runs.Run,
	ruleSet *rules.RuleSet,
) evaluators.RunContext {
	custom := rt.Evaluators.ClassifyRequirements(
		ctx,
		run.CustomRequirements,
		run.AgentModels[classifierHintKey],
	)

	targetClass := ruleSet.DegreeClass
	if targetClass == "" {
		targetClass = rules.DefaultDegreeClass
	}

	englishHint := ""
	if ruleSet.EnglishLevel != nil {
		englishHint = *ruleSet.EnglishLevel
	}

	return evaluators.RunContext{
		TargetClass:      targetClass,
		EnglishLevelHint: englishHint,
		EnglishPolicy:    ruleSet.EnglishPolicy,
		Checklists:       rules.MergeChecklists(ruleSet.Checklists, custom),
		ModelHints:       modelHints(run.AgentModels),
	}
}

// modelHints filters a run's agent model map down to valid dimensions.
func modelHints(models map[string]string) map[evaluations.Dimension]string {
	hints := make(map[evaluations.Dimension]string, len(models))
	for name, model := range models {
		dim := evaluations.Dimension(name)
		if dim.Valid() {
			hints[dim] = model
		}
	}
	return hints
}
