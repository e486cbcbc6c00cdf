package main

import (
	"fmt"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/cohort/internal/applicants"
	"github.com/JaimeStill/cohort/internal/config"
	"github.com/JaimeStill/cohort/internal/documents"
	"github.com/JaimeStill/cohort/internal/eligibility"
	"github.com/JaimeStill/cohort/internal/evaluations"
	"github.com/JaimeStill/cohort/internal/evaluators"
	"github.com/JaimeStill/cohort/internal/gating"
	"github.com/JaimeStill/cohort/internal/infrastructure"
	"github.com/JaimeStill/cohort/internal/judge"
	"github.com/JaimeStill/cohort/internal/ranking"
	"github.com/JaimeStill/cohort/internal/rules"
	"github.com/JaimeStill/cohort/internal/runs"
	"github.com/JaimeStill/cohort/internal/workflow"
)

// buildRuntime assembles the domain systems, the judgment invoker, and the
// evaluators into the workflow runtime.
func buildRuntime(
	cfg *config.Config,
	agentCfg gaconfig.AgentConfig,
	infra *infrastructure.Infrastructure,
) (*workflow.Runtime, error) {
	china, err := eligibility.NewChina()
	if err != nil {
		return nil, fmt.Errorf("china rules: %w", err)
	}

	india, err := eligibility.NewIndia()
	if err != nil {
		return nil, fmt.Errorf("india rules: %w", err)
	}

	db := infra.Database.Connection()
	logger := infra.Logger

	docs := documents.New(db, logger, cfg.Pagination)
	rankings := ranking.New(db, logger, cfg.Pagination)

	invoker := judge.NewAgent(agentCfg, logger)

	return &workflow.Runtime{
		Agent:       agentCfg,
		Runs:        runs.New(db, logger, cfg.Pagination),
		Rules:       rules.New(db, logger, cfg.Pagination),
		Applicants:  applicants.New(db, logger, cfg.Pagination),
		Documents:   docs,
		Evaluations: evaluations.New(db, logger, cfg.Pagination),
		Gating:      gating.New(db, logger, cfg.Pagination),
		Rankings:    rankings,
		Evaluators:  evaluators.New(invoker, docs, china, india, logger),
		Comparator:  evaluators.NewComparator(invoker, "", logger),
		Settings: workflow.Settings{
			EvaluationTimeout: cfg.Pipeline.EvaluationTimeoutDuration(),
			PairwisePasses:    cfg.Pipeline.PairwisePasses,
			PairwiseEpsilon:   cfg.Pipeline.PairwiseEpsilon,
		},
		Logger: logger,
	}, nil
}
