package evaluators

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/internal/evaluations"
	"github.com/JaimeStill/cohort/internal/judge"
)

const academicInstructions = "Evaluate publications using document access tools: check venue tier (conference/journal) and coauthorship with faculty. " +
	"First call list_documents then prioritize: CV, Publications List, Research Statement, Portfolio. " +
	"Use search_documents to find 'publication', 'paper', 'conference', 'journal'. " +
	"Score: top-tier 10; general conference 5; only unpublished 0. " +
	"Use minimal tokens - focus on academic documents and publications. " +
	"Return JSON: {score:number (0-10), papers:[{title:string, venue:string, tier:string}], evidence:string[]}."

// Paper is one publication found in the applicant's materials.
type Paper struct {
	Title string `json:"title"`
	Venue string `json:"venue"`
	Tier  string `json:"tier"`
}

// AcademicResult is the response contract for the academic dimension.
type AcademicResult struct {
	Score    *float64 `json:"score"`
	Papers   []Paper  `json:"papers"`
	Evidence []string `json:"evidence"`
}

func (e *Evaluators) evaluateAcademic(ctx context.Context, applicantID uuid.UUID, rc RunContext) evaluations.Result {
	req := judge.Request{
		Role:         "an academic publications assessor for postgraduate admissions",
		Instructions: academicInstructions,
		Content:      "Use document access functions to find academic publications and research work.",
		Tools:        docTools(e.docs, applicantID),
		ModelHint:    rc.modelHint(evaluations.DimensionAcademic),
	}

	parsed, details, err := invokeContract(ctx, e.invoker, req,
		func(r *AcademicResult) bool { return r.Score != nil })
	if err != nil {
		return degrade(evaluations.DimensionAcademic, err, AcademicResult{
			Papers:   []Paper{},
			Evidence: []string{},
		})
	}

	return evaluations.Result{
		Dimension: evaluations.DimensionAcademic,
		Score:     parsed.Score,
		Details:   details,
		Evidence:  parsed.Evidence,
	}
}
