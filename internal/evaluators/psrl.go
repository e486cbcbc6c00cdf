package evaluators

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/internal/evaluations"
	"github.com/JaimeStill/cohort/internal/judge"
)

const psrlInstructions = "Evaluate personal statement motivation and detail; verify alignment to the checklist using document access tools. " +
	"First call list_documents then prioritize: Personal Statement, Reference Letters, Motivation Letter. " +
	"For reference letters, weigh the recommender's stated standing and relationship to the applicant. " +
	"Use minimal tokens - focus on PS and reference letter documents specifically. " +
	"\n" +
	"MANDATORY: Return ONLY valid JSON format, no markdown or additional text: " +
	`{"score": <number 0-10>, "strengths": ["strength1", "strength2"], "weaknesses": ["weakness1"], "evidence": ["evidence1"]}`

// PSRLResult is the response contract for the personal statement and
// reference letter dimension.
type PSRLResult struct {
	Score      *float64 `json:"score"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	Evidence   []string `json:"evidence"`
}

func (e *Evaluators) evaluatePSRL(ctx context.Context, applicantID uuid.UUID, rc RunContext) evaluations.Result {
	content := fmt.Sprintf(
		"Checklist:%s\nUse document access functions to find personal statement and reference letter content.",
		formatChecklist(rc.Checklist(evaluations.DimensionPSRL)),
	)

	req := judge.Request{
		Role:         "a personal statement and reference letter assessor for postgraduate admissions",
		Instructions: psrlInstructions,
		Content:      content,
		Tools:        docTools(e.docs, applicantID),
		ModelHint:    rc.modelHint(evaluations.DimensionPSRL),
	}

	parsed, details, err := invokeContract(ctx, e.invoker, req,
		func(r *PSRLResult) bool { return r.Score != nil })
	if err != nil {
		return degrade(evaluations.DimensionPSRL, err, PSRLResult{
			Strengths:  []string{},
			Weaknesses: []string{},
			Evidence:   []string{},
		})
	}

	return evaluations.Result{
		Dimension: evaluations.DimensionPSRL,
		Score:     parsed.Score,
		Details:   details,
		Evidence:  parsed.Evidence,
	}
}
