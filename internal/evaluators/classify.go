package evaluators

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/cohort/internal/evaluations"
	"github.com/JaimeStill/cohort/internal/judge"
)

const classifyInstructions = "You are a requirements classification specialist for university admissions. " +
	"Your role is to analyze custom requirements provided by users and classify them " +
	"into appropriate evaluation dimension categories.\n" +
	"\n" +
	"DIMENSION CATEGORIES:\n" +
	"- english: English language requirements (IELTS, TOEFL, language proficiency, exemptions)\n" +
	"- degree: Academic degree requirements (GPA, classification, subject prerequisites, academic background)\n" +
	"- experience: Work experience, internships, professional projects, industry experience\n" +
	"- ps_rl: Personal statement, reference letters, motivation letters, recommendation requirements\n" +
	"- academic: Research publications, academic achievements, scholarly work\n" +
	"\n" +
	"CLASSIFICATION RULES:\n" +
	"1. Assign each requirement to the MOST appropriate single category\n" +
	"2. If a requirement spans multiple categories, choose the primary/dominant one\n" +
	"3. Mark requirements as 'high' priority if they are mandatory/critical\n" +
	"4. Provide clear reasoning for each classification decision\n" +
	"\n" +
	"OUTPUT FORMAT: Return ONLY valid JSON with no additional text.\n" +
	`Return JSON: {"classifications": [{"requirement": string, "dimension": string, "priority": "high"|"normal", "reasoning": string}]}`

type requirementClassification struct {
	Requirement string `json:"requirement"`
	Dimension   string `json:"dimension"`
	Priority    string `json:"priority"`
	Reasoning   string `json:"reasoning"`
}

type classifierResult struct {
	Classifications []requirementClassification `json:"classifications"`
}

// ClassifyRequirements distributes run-level custom requirements across the
// evaluation dimensions, tagging each with the user-defined marker. When
// classification fails, every requirement falls back to the degree
// checklist so nothing is silently dropped.
func (e *Evaluators) ClassifyRequirements(
	ctx context.Context,
	requirements []string,
	modelHint string,
) map[evaluations.Dimension][]string {
	classified := make(map[evaluations.Dimension][]string, len(evaluations.Dimensions))
	for _, dim := range evaluations.Dimensions {
		classified[dim] = []string{}
	}

	if len(requirements) == 0 {
		return classified
	}

	var listing strings.Builder
	for _, req := range requirements {
		fmt.Fprintf(&listing, "- %s\n", req)
	}

	content := fmt.Sprintf(
		"Please classify the following %d custom requirements into appropriate dimension categories:\n\n"+
			"Custom Requirements:\n%s\n"+
			"Analyze each requirement and determine which evaluation dimension should handle it. "+
			"Mark critical/mandatory requirements as high priority.",
		len(requirements), listing.String(),
	)

	req := judge.Request{
		Role:         "a requirements classification specialist for university admissions",
		Instructions: classifyInstructions,
		Content:      content,
		ModelHint:    modelHint,
	}

	parsed, _, err := invokeContract(ctx, e.invoker, req,
		func(r *classifierResult) bool { return len(r.Classifications) > 0 })
	if err != nil {
		e.logger.Warn("requirement classification failed, assigning all to degree", "error", err)
		for _, r := range requirements {
			classified[evaluations.DimensionDegree] = append(
				classified[evaluations.DimensionDegree],
				fmt.Sprintf("%s %s", userDefinedMarker, r),
			)
		}
		return classified
	}

	for _, c := range parsed.Classifications {
		dim := evaluations.Dimension(c.Dimension)
		if !dim.Valid() {
			e.logger.Warn("unknown dimension in classification",
				"dimension", c.Dimension,
				"requirement", c.Requirement,
			)
			continue
		}

		classified[dim] = append(classified[dim], fmt.Sprintf("%s %s", userDefinedMarker, c.Requirement))
	}

	return classified
}
