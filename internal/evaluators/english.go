package evaluators

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/internal/evaluations"
	"github.com/JaimeStill/cohort/internal/judge"
)

const englishInstructions = "You evaluate English language requirements for postgraduate admission using document access tools. Follow these steps:\n" +
	"\n" +
	"STEP 1 - Survey Documents:\n" +
	"- Call list_documents to see available materials\n" +
	"- Prioritize: Personal Statement, CV, Transcripts, Test Certificates\n" +
	"- Use search_documents to find 'IELTS', 'TOEFL', 'nationality', 'citizenship'\n" +
	"\n" +
	"STEP 2 - Check Exemptions:\n" +
	"- Look for nationality mentions (British, American, Canadian, etc.)\n" +
	"- Look for degree countries (University of Cambridge, Harvard, etc.)\n" +
	"- If nationality OR degree country is in the policy exemption lists, set exemption=true\n" +
	"\n" +
	"STEP 3 - Extract Test Scores:\n" +
	"- Read documents likely to contain test scores (certificates, CV, PS)\n" +
	"- Extract ALL numeric scores: overall, reading, writing, speaking, listening\n" +
	"- Common formats: 'Overall: 7.5', 'Band Score: 7.5', 'Total: 100'\n" +
	"- Set test_type (e.g., 'IELTS') and test_overall (e.g., 7.5)\n" +
	"\n" +
	"STEP 4 - Evaluate Against Requirements:\n" +
	"- Use the provided level hint to find the policy's per-level test requirements\n" +
	"- Call meets_thresholds to compare scores vs. requirements\n" +
	"- If exemption applies, score is 10; otherwise for IELTS call score_ielts_level2 to get the 0-10 score\n" +
	"\n" +
	"Return JSON: {exemption:boolean, test_type:string|null, test_overall:number|null, level:string|null, score:number|null, evidence:string[]}\n" +
	"Use minimal tokens - be strategic about which documents to read fully."

// EnglishResult is the response contract for the English dimension.
type EnglishResult struct {
	Exemption   bool     `json:"exemption"`
	TestType    *string  `json:"test_type"`
	TestOverall *float64 `json:"test_overall"`
	Level       *string  `json:"level"`
	Score       *float64 `json:"score"`
	Evidence    []string `json:"evidence"`
}

func (e *Evaluators) evaluateEnglish(ctx context.Context, applicantID uuid.UUID, rc RunContext) evaluations.Result {
	policyJSON, err := json.Marshal(rc.EnglishPolicy)
	if err != nil {
		policyJSON = []byte("{}")
	}

	content := fmt.Sprintf(
		"Level hint: %s\nPolicy JSON:\n%s\nChecklist:%s\n"+
			"IMPORTANT: Use meets_thresholds for deterministic numeric comparisons.\n"+
			"IMPORTANT: Use document access functions to find English test information strategically.",
		rc.EnglishLevelHint,
		policyJSON,
		formatChecklist(rc.Checklist(evaluations.DimensionEnglish)),
	)

	tools := append(
		docTools(e.docs, applicantID),
		ieltsLevel2Tool{},
		meetsThresholdsTool{},
	)

	req := judge.Request{
		Role:         "an English language requirements assessor for postgraduate admissions",
		Instructions: englishInstructions,
		Content:      content,
		Tools:        tools,
		ModelHint:    rc.modelHint(evaluations.DimensionEnglish),
	}

	parsed, details, err := invokeContract[EnglishResult](ctx, e.invoker, req, nil)
	if err != nil {
		return degrade(evaluations.DimensionEnglish, err, EnglishResult{
			Level:    &rc.EnglishLevelHint,
			Evidence: []string{},
		})
	}

	// Exemption is a full pass regardless of any test result.
	if parsed.Exemption {
		parsed.Score = floatPtr(10)
	}

	return evaluations.Result{
		Dimension: evaluations.DimensionEnglish,
		Score:     parsed.Score,
		Details:   details,
		Evidence:  parsed.Evidence,
	}
}
