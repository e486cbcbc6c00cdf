package evaluators

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/internal/documents"
	"github.com/JaimeStill/cohort/internal/eligibility"
	"github.com/JaimeStill/cohort/internal/judge"
)

// previewLength caps the text preview returned by list_documents.
const previewLength = 200

func argString(args map[string]any, key string) string {
	if v, ok := args[key]; ok {
		return fmt.Sprint(v)
	}
	return ""
}

func argFloat(args map[string]any, key string, fallback float64) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return fallback
}

func argInt(args map[string]any, key string, fallback int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return fallback
}

func argBool(args map[string]any, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}

// docTools returns the document access capabilities scoped to one
// applicant: list, read, and keyword search.
func docTools(docs documents.System, applicantID uuid.UUID) []judge.Tool {
	return []judge.Tool{
		&listDocumentsTool{docs: docs, applicantID: applicantID},
		&readDocumentTool{docs: docs, applicantID: applicantID},
		&searchDocumentsTool{docs: docs, applicantID: applicantID},
	}
}

type listDocumentsTool struct {
	docs        documents.System
	applicantID uuid.UUID
}

func (t *listDocumentsTool) Name() string { return "list_documents" }

func (t *listDocumentsTool) Description() string {
	return "List all documents available for this applicant with id, filename, type, size, and a brief preview."
}

func (t *listDocumentsTool) Call(ctx context.Context, args map[string]any) (any, error) {
	items, err := t.docs.ListByApplicant(ctx, t.applicantID)
	if err != nil {
		return nil, err
	}

	listing := make([]map[string]any, 0, len(items))
	for _, d := range items {
		preview := d.Text
		if len(preview) > previewLength {
			preview = preview[:previewLength] + "..."
		}

		listing = append(listing, map[string]any{
			"id":           d.ID,
			"filename":     d.OriginalFilename,
			"type":         d.DocType,
			"content_type": d.ContentType,
			"size_bytes":   d.SizeBytes,
			"preview":      preview,
		})
	}

	return listing, nil
}

type readDocumentTool struct {
	docs        documents.System
	applicantID uuid.UUID
}

func (t *readDocumentTool) Name() string { return "read_document" }

func (t *readDocumentTool) Description() string {
	return "Read the full text content of a specific document by id from list_documents."
}

func (t *readDocumentTool) Call(ctx context.Context, args map[string]any) (any, error) {
	id, err := uuid.Parse(argString(args, "doc_id"))
	if err != nil {
		return nil, fmt.Errorf("invalid doc_id: %w", err)
	}

	d, err := t.docs.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if d.ApplicantID != t.applicantID {
		return nil, documents.ErrNotFound
	}

	return d.Text, nil
}

type searchDocumentsTool struct {
	docs        documents.System
	applicantID uuid.UUID
}

func (t *searchDocumentsTool) Name() string { return "search_documents" }

func (t *searchDocumentsTool) Description() string {
	return "Search for keywords across all of this applicant's documents; returns matches with surrounding context."
}

func (t *searchDocumentsTool) Call(ctx context.Context, args map[string]any) (any, error) {
	term := argString(args, "query")
	if strings.TrimSpace(term) == "" {
		return nil, fmt.Errorf("query is required")
	}

	maxResults := argInt(args, "max_results", 10)
	return t.docs.Search(ctx, t.applicantID, term, maxResults)
}

// ieltsLevel2Tool converts an IELTS overall band into the fixed Level 2
// score breakpoints.
type ieltsLevel2Tool struct{}

func (ieltsLevel2Tool) Name() string { return "score_ielts_level2" }

func (ieltsLevel2Tool) Description() string {
	return "Score an IELTS overall band against the Level 2 policy, returning 0-10."
}

func (ieltsLevel2Tool) Call(_ context.Context, args map[string]any) (any, error) {
	return scoreIELTSLevel2(argFloat(args, "overall", 0)), nil
}

// scoreIELTSLevel2 is the fixed Level 2 breakpoint table. The mapping is a
// published policy value; do not re-derive.
func scoreIELTSLevel2(overall float64) int {
	switch {
	case overall >= 8.0:
		return 10
	case overall >= 7.5:
		return 7
	case overall >= 7.0:
		return 5
	default:
		return 0
	}
}

// meetsThresholdsTool compares observed English test components against
// required minimums. A value of -1 on either side marks it not applicable.
type meetsThresholdsTool struct{}

func (meetsThresholdsTool) Name() string { return "meets_thresholds" }

func (meetsThresholdsTool) Description() string {
	return "Compare observed test scores (overall, reading, writing, speaking, listening) against required minimums; pass -1 for values that do not apply."
}

func (meetsThresholdsTool) Call(_ context.Context, args map[string]any) (any, error) {
	components := []string{"overall", "reading", "writing", "speaking", "listening"}

	for _, c := range components {
		observed := argFloat(args, c, -1)
		required := argFloat(args, "min_"+c, -1)
		if required >= 0 && observed >= 0 && observed < required {
			return false, nil
		}
	}

	return true, nil
}

// percentThresholdTool is the deterministic percent comparison for degree
// marks.
type percentThresholdTool struct{}

func (percentThresholdTool) Name() string { return "meets_percent_threshold" }

func (percentThresholdTool) Description() string {
	return "Check whether an observed percentage meets a required minimum percentage."
}

func (percentThresholdTool) Call(_ context.Context, args map[string]any) (any, error) {
	observed := argFloat(args, "observed_percent", -1)
	required := argFloat(args, "min_required_percent", -1)
	return observed >= required, nil
}

// chinaEligibilityTool exposes the China evaluator as a callable capability.
type chinaEligibilityTool struct {
	china *eligibility.China
}

func (t *chinaEligibilityTool) Name() string { return "evaluate_china_applicant" }

func (t *chinaEligibilityTool) Description() string {
	return "Evaluate a Chinese applicant against the official China admission rules. " +
		"Args: institution_name, major_field, weighted_average_mark (percent), " +
		"target_uk_class ('first', '2:1', '2:2'), degree_years (default 4), moe_recognized (default true)."
}

func (t *chinaEligibilityTool) Call(_ context.Context, args map[string]any) (any, error) {
	band, ok := eligibility.ParseBand(argString(args, "target_uk_class"))
	if !ok {
		return nil, fmt.Errorf("invalid target_uk_class: %q", argString(args, "target_uk_class"))
	}

	verdict := t.china.Evaluate(eligibility.ChinaCredential{
		Country:       "China",
		DegreeYears:   argInt(args, "degree_years", 4),
		MOERecognized: argBool(args, "moe_recognized", true),
		Institution:   argString(args, "institution_name"),
		Major:         argString(args, "major_field"),
		Mark:          argFloat(args, "weighted_average_mark", 0),
		TargetBand:    band,
	})

	return verdict, nil
}

// indiaEligibilityTool exposes the India evaluator as a callable capability.
type indiaEligibilityTool struct {
	india *eligibility.India
}

func (t *indiaEligibilityTool) Name() string { return "evaluate_india_applicant" }

func (t *indiaEligibilityTool) Description() string {
	return "Evaluate an Indian applicant against the official India Category 1/2 admission rules. " +
		"Args: institution_name, mark_value, mark_scale ('10', '8', '7', '6', '4', or 'percent'), " +
		"target_uk_class ('first', '2:1', '2:2'), degree_years (default 4), govt_recognized (default true)."
}

func (t *indiaEligibilityTool) Call(_ context.Context, args map[string]any) (any, error) {
	band, ok := eligibility.ParseBand(argString(args, "target_uk_class"))
	if !ok {
		return nil, fmt.Errorf("invalid target_uk_class: %q", argString(args, "target_uk_class"))
	}

	var denom *int
	if scale := argString(args, "mark_scale"); scale != "" && scale != "percent" {
		d, err := strconv.Atoi(scale)
		if err != nil {
			return nil, fmt.Errorf("invalid mark_scale: %q", scale)
		}
		denom = &d
	}

	verdict := t.india.Evaluate(eligibility.IndiaCredential{
		Country:                "India",
		DegreeYears:            argInt(args, "degree_years", 4),
		AwardingBodyRecognised: argBool(args, "govt_recognized", true),
		Institution:            argString(args, "institution_name"),
		Mark:                   argFloat(args, "mark_value", 0),
		ScaleDenominator:       denom,
		TargetBand:             band,
	})

	return verdict, nil
}

// countrySupportTool tells the model whether a country has a specialized
// evaluator and which one to call.
type countrySupportTool struct{}

func (countrySupportTool) Name() string { return "is_country_supported" }

func (countrySupportTool) Description() string {
	return "Check whether a country has a specialized eligibility evaluator, and which function to use."
}

func (countrySupportTool) Call(_ context.Context, args map[string]any) (any, error) {
	country := strings.ToLower(strings.TrimSpace(argString(args, "country")))

	switch country {
	case "china", "chn", "cn", "中国":
		return map[string]any{
			"supported":       true,
			"country":         "China",
			"country_code":    "CHN",
			"function_to_use": "evaluate_china_applicant",
		}, nil
	case "india", "ind", "in", "भारत":
		return map[string]any{
			"supported":       true,
			"country":         "India",
			"country_code":    "IND",
			"function_to_use": "evaluate_india_applicant",
		}, nil
	default:
		return map[string]any{
			"supported": false,
			"country":   country,
			"note":      "Use general degree policy guidance for other countries",
		}, nil
	}
}
