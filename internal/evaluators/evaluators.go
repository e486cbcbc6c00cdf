// Package evaluators implements the five dimension evaluators, the pairwise
// comparator, the custom-requirements classifier, and the country detector.
// Each evaluator composes a rubric-bearing instruction, invokes a judgment
// call with dimension-appropriate tools, and parses the response through
// the shared contract parser with one bounded retry.
package evaluators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/internal/documents"
	"github.com/JaimeStill/cohort/internal/eligibility"
	"github.com/JaimeStill/cohort/internal/evaluations"
	"github.com/JaimeStill/cohort/internal/judge"
	"github.com/JaimeStill/cohort/internal/rules"
	"github.com/JaimeStill/cohort/pkg/contract"
)

// ErrContractViolated indicates both attempts failed to produce a response
// matching the dimension's contract.
var ErrContractViolated = errors.New("response contract violated after retry")

// strictSuffix is appended to the instruction on the second attempt.
const strictSuffix = "MANDATORY: Return ONLY the JSON object described above. " +
	"No markdown, no code fences, no additional text."

// userDefinedMarker prefixes checklist items contributed by run-level
// custom requirements. Marked items must surface verbatim in evidence.
const userDefinedMarker = "[USER DEFINED]"

// RunContext carries the run-level settings every evaluator reads: the
// target degree class, merged checklists, English policy, any country
// special context, and per-dimension model overrides.
type RunContext struct {
	TargetClass      string
	EnglishLevelHint string
	EnglishPolicy    *rules.EnglishPolicy
	Checklists       map[evaluations.Dimension][]string
	SpecialContext   string
	DetectedCountry  string
	ModelHints       map[evaluations.Dimension]string
}

// Checklist returns the checklist for one dimension, never nil.
func (rc RunContext) Checklist(dim evaluations.Dimension) []string {
	items := rc.Checklists[dim]
	if items == nil {
		return []string{}
	}
	return items
}

func (rc RunContext) modelHint(dim evaluations.Dimension) string {
	return rc.ModelHints[dim]
}

// Evaluators bundles the judgment invoker and the deterministic
// capabilities the dimension evaluators expose as tools.
type Evaluators struct {
	invoker judge.Invoker
	docs    documents.System
	china   *eligibility.China
	india   *eligibility.India
	logger  *slog.Logger
}

func New(
	invoker judge.Invoker,
	docs documents.System,
	china *eligibility.China,
	india *eligibility.India,
	logger *slog.Logger,
) *Evaluators {
	return &Evaluators{
		invoker: invoker,
		docs:    docs,
		china:   china,
		india:   india,
		logger:  logger.With("system", "evaluators"),
	}
}

// Evaluate runs one dimension evaluator for an applicant. It never returns
// an error: contract violations degrade to a null-score result, and
// transport failures surface in the result's Error field.
func (e *Evaluators) Evaluate(
	ctx context.Context,
	applicantID uuid.UUID,
	dim evaluations.Dimension,
	rc RunContext,
) evaluations.Result {
	var result evaluations.Result

	switch dim {
	case evaluations.DimensionEnglish:
		result = e.evaluateEnglish(ctx, applicantID, rc)
	case evaluations.DimensionDegree:
		result = e.evaluateDegree(ctx, applicantID, rc)
	case evaluations.DimensionExperience:
		result = e.evaluateExperience(ctx, applicantID, rc)
	case evaluations.DimensionPSRL:
		result = e.evaluatePSRL(ctx, applicantID, rc)
	case evaluations.DimensionAcademic:
		result = e.evaluateAcademic(ctx, applicantID, rc)
	default:
		result = evaluations.Result{
			Dimension: dim,
			Evidence:  []string{},
			Error:     fmt.Sprintf("unknown dimension: %s", dim),
		}
	}

	result.Evidence = echoUserDefined(result.Evidence, rc.Checklist(dim))
	return result
}

// invokeContract performs the two-attempt state machine: invoke, extract,
// parse, validate; on contract violation append the strict suffix and try
// once more. A transport error aborts immediately — retrying the model is
// only for malformed output, not infrastructure failures.
func invokeContract[T any](
	ctx context.Context,
	invoker judge.Invoker,
	req judge.Request,
	valid func(*T) bool,
) (T, json.RawMessage, error) {
	var zero T

	for attempt := 0; attempt < 2; attempt++ {
		r := req
		if attempt > 0 {
			r.Instructions = req.Instructions + "\n\n" + strictSuffix
		}

		content, err := invoker.Invoke(ctx, r)
		if err != nil {
			return zero, nil, err
		}

		raw, err := contract.Extract(content)
		if err != nil {
			continue
		}

		var parsed T
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			continue
		}

		if valid != nil && !valid(&parsed) {
			continue
		}

		return parsed, json.RawMessage(raw), nil
	}

	return zero, nil, ErrContractViolated
}

// degrade maps a failed evaluator invocation onto the null-result contract:
// contract violations produce a clean null score, anything else carries the
// error for gating and audit.
func degrade(dim evaluations.Dimension, err error, fallback any) evaluations.Result {
	result := evaluations.Result{
		Dimension: dim,
		Evidence:  []string{},
	}

	if details, marshalErr := json.Marshal(fallback); marshalErr == nil {
		result.Details = details
	}

	if !errors.Is(err, ErrContractViolated) {
		result.Error = err.Error()
	}

	return result
}

// echoUserDefined guarantees user-defined checklist items appear verbatim
// in evidence, whether or not the model repeated them.
func echoUserDefined(evidence []string, checklist []string) []string {
	if evidence == nil {
		evidence = []string{}
	}

	present := make(map[string]struct{}, len(evidence))
	for _, item := range evidence {
		present[item] = struct{}{}
	}

	for _, item := range checklist {
		if !strings.HasPrefix(item, userDefinedMarker) {
			continue
		}
		if _, ok := present[item]; ok {
			continue
		}
		evidence = append(evidence, item)
	}

	return evidence
}

func formatChecklist(items []string) string {
	if len(items) == 0 {
		return "[]"
	}

	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "\n- %s", item)
	}
	return b.String()
}

func floatPtr(f float64) *float64 { return &f }
