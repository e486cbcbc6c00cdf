package evaluators

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/internal/evaluations"
	"github.com/JaimeStill/cohort/internal/judge"
)

// specialContextLimit caps the country rule text embedded in the degree
// prompt.
const specialContextLimit = 6000

const degreeInstructions = "You verify degree equivalency and academic background fit using document access and specialized policy tools. " +
	"PRIORITY: For China/India applicants, use the specialized evaluation functions first. " +
	"\n" +
	"Steps: " +
	"(1) Survey available documents with list_documents; " +
	"(2) Read transcripts, degree certificates, and CV strategically; " +
	"(3) Infer the applicant's degree-awarding country and institution; " +
	"(4) CRITICAL - For China/India applicants: " +
	"   - If China (CHN): Call evaluate_china_applicant(institution_name, major_field, weighted_average_mark, target_uk_class) " +
	"   - If India (IND): Call evaluate_india_applicant(institution_name, mark_value, mark_scale, target_uk_class) " +
	"   - These functions apply the official requirements with precise thresholds and institution classifications " +
	"   - Use is_country_supported(country) to check if specialized evaluation is available " +
	"(5) For other countries: apply the general policy guidance from the special context when provided; " +
	"(6) Extract the degree result (percent/CGPA) from transcripts; " +
	"(7) Verify subject/field relevance against programme requirements from the checklist; " +
	"(8) Check prerequisite courses and academic background fit; " +
	"(9) If using a general percent threshold, call meets_percent_threshold(observed_percent, min_required_percent); " +
	"(10) Compute score: use specialized function results or estimate 0-10 from policy; " +
	"(11) Report the institution's most recent QS World University Ranking if it appears in the documents or you know it reliably. " +
	"IMPORTANT: The China/India functions provide authoritative eligibility determinations - trust their results over general rules. " +
	"Use minimal tokens - focus on transcripts and certificates for degree info. " +
	"Return strict JSON: {country:string|null, institution:string|null, meets_requirement:boolean|null, qs_rank:int|null, score:number|null, subject_fit:boolean|null, missing_prerequisites:string[], evidence:string[], policy_source:string|null}."

// DegreeResult is the response contract for the degree dimension.
type DegreeResult struct {
	Country              *string  `json:"country"`
	Institution          *string  `json:"institution"`
	MeetsRequirement     *bool    `json:"meets_requirement"`
	QSRank               *float64 `json:"qs_rank"`
	Score                *float64 `json:"score"`
	SubjectFit           *bool    `json:"subject_fit"`
	MissingPrerequisites []string `json:"missing_prerequisites"`
	Evidence             []string `json:"evidence"`
	PolicySource         *string  `json:"policy_source"`
}

func (e *Evaluators) evaluateDegree(ctx context.Context, applicantID uuid.UUID, rc RunContext) evaluations.Result {
	lines := []string{
		fmt.Sprintf("Target UK class: %s", rc.TargetClass),
		fmt.Sprintf("Checklist:%s", formatChecklist(rc.Checklist(evaluations.DimensionDegree))),
	}

	if rc.SpecialContext != "" {
		special := rc.SpecialContext
		if len(special) > specialContextLimit {
			special = special[:specialContextLimit]
		}
		lines = append(lines, fmt.Sprintf(
			"Special Context (use only if relevant to country %s):\n%s",
			rc.DetectedCountry, special,
		))
	}

	lines = append(lines, "Use document access functions to find degree and academic information strategically.")

	tools := append(
		docTools(e.docs, applicantID),
		&chinaEligibilityTool{china: e.china},
		&indiaEligibilityTool{india: e.india},
		countrySupportTool{},
		percentThresholdTool{},
	)

	req := judge.Request{
		Role:         "a degree equivalency assessor for postgraduate admissions",
		Instructions: degreeInstructions,
		Content:      strings.Join(lines, "\n"),
		Tools:        tools,
		ModelHint:    rc.modelHint(evaluations.DimensionDegree),
	}

	parsed, details, err := invokeContract[DegreeResult](ctx, e.invoker, req, nil)
	if err != nil {
		return degrade(evaluations.DimensionDegree, err, DegreeResult{
			MissingPrerequisites: []string{},
			Evidence:             []string{},
		})
	}

	return evaluations.Result{
		Dimension: evaluations.DimensionDegree,
		Score:     parsed.Score,
		Details:   details,
		Evidence:  parsed.Evidence,
	}
}
