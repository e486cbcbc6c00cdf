package evaluators

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/internal/evaluations"
	"github.com/JaimeStill/cohort/internal/judge"
)

const experienceInstructions = "You assess internships/work/projects vs requirements using document access tools. " +
	"First call list_documents then prioritize: CV, Personal Statement, Experience Letters, Portfolio. " +
	"Gauge company reputation from the evidence in the documents. " +
	"Score (0-10): top companies >2 months -> 10; Tencent/Huawei -> 8; general IT -> 4; other work -> 2; school projects based on relevance. " +
	"Use minimal tokens - focus on CV and experience-related documents. " +
	"Return JSON: {score:number (0-10), highlights:string[], evidence:string[]}."

// ExperienceResult is the response contract for the experience dimension.
type ExperienceResult struct {
	Score      *float64 `json:"score"`
	Highlights []string `json:"highlights"`
	Evidence   []string `json:"evidence"`
}

func (e *Evaluators) evaluateExperience(ctx context.Context, applicantID uuid.UUID, rc RunContext) evaluations.Result {
	content := fmt.Sprintf(
		"Checklist:%s\nUse document access functions to find work experience and project information.",
		formatChecklist(rc.Checklist(evaluations.DimensionExperience)),
	)

	req := judge.Request{
		Role:         "a work experience assessor for postgraduate admissions",
		Instructions: experienceInstructions,
		Content:      content,
		Tools:        docTools(e.docs, applicantID),
		ModelHint:    rc.modelHint(evaluations.DimensionExperience),
	}

	parsed, details, err := invokeContract(ctx, e.invoker, req,
		func(r *ExperienceResult) bool { return r.Score != nil })
	if err != nil {
		return degrade(evaluations.DimensionExperience, err, ExperienceResult{
			Highlights: []string{},
			Evidence:   []string{},
		})
	}

	return evaluations.Result{
		Dimension: evaluations.DimensionExperience,
		Score:     parsed.Score,
		Details:   details,
		Evidence:  parsed.Evidence,
	}
}
