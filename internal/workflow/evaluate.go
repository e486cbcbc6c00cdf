package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/cohort/internal/applicants"
	"github.com/JaimeStill/cohort/internal/documents"
	"github.com/JaimeStill/cohort/internal/eligibility"
	"github.com/JaimeStill/cohort/internal/evaluations"
	"github.com/JaimeStill/cohort/internal/evaluators"
)

// Country detection reads a small sample from the first few documents;
// the full text only matters to the dimension evaluators, which access it
// through tools.
const (
	countrySampleDocs  = 3
	countrySampleLimit = 2000
)

// EvaluateNode returns a state node that evaluates every applicant in the
// roster. Applicants are processed sequentially; within one applicant the
// missing dimensions fan out concurrently under the evaluation deadline.
// Dimensions already stored from a previous attempt are not re-run.
func EvaluateNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		st, err := extractAssessState(s)
		if err != nil {
			return s, fmt.Errorf("evaluate: %w", err)
		}

		for i := range st.Applicants {
			if err := evaluateApplicant(ctx, rt, st, &st.Applicants[i]); err != nil {
				return s, fmt.Errorf("evaluate: %w", err)
			}
		}

		rt.Logger.InfoContext(
			ctx, "evaluate node complete",
			"run_id", st.Run.ID,
			"applicants", len(st.Applicants),
		)

		s = s.Set(KeyAssessState, *st)
		return s, nil
	})
}

func evaluateApplicant(
	ctx context.Context,
	rt *Runtime,
	st *AssessmentState,
	applicant *applicants.Applicant,
) error {
	existing, err := rt.Evaluations.FindByApplicant(ctx, applicant.ID)
	if err != nil {
		return fmt.Errorf("%w: load existing evaluations: %w", ErrEvaluateFailed, err)
	}

	var needed []evaluations.Dimension
	for _, dim := range evaluations.Dimensions {
		if _, ok := existing[dim]; !ok {
			needed = append(needed, dim)
		}
	}

	if len(needed) == 0 {
		rt.Logger.DebugContext(
			ctx, "applicant already evaluated",
			"applicant_id", applicant.ID,
		)
		return nil
	}

	rc, err := applicantContext(ctx, rt, st.Base, applicant.ID)
	if err != nil {
		return err
	}

	results := fanOut(ctx, rt, applicant.ID, rc, needed)

	for _, dim := range needed {
		if _, err := rt.Evaluations.Record(ctx, evaluations.RecordCommand{
			ApplicantID:  applicant.ID,
			RunID:        st.Run.ID,
			Result:       results[dim],
			ModelName:    modelFor(rt, rc, dim),
			ProviderName: providerName(rt),
		}); err != nil {
			return fmt.Errorf("%w: record %s: %w", ErrEvaluateFailed, dim, err)
		}
	}

	return nil
}

// applicantContext specializes the base run context for one applicant:
// detect the degree country and attach the matching equivalency guidance
// when one exists.
func applicantContext(
	ctx context.Context,
	rt *Runtime,
	base evaluators.RunContext,
	applicantID uuid.UUID,
) (evaluators.RunContext, error) {
	docs, err := rt.Documents.ListByApplicant(ctx, applicantID)
	if err != nil {
		return base, fmt.Errorf("%w: list documents: %w", ErrEvaluateFailed, err)
	}

	detected := rt.Evaluators.DetectDegreeCountry(ctx, textSample(docs))

	rc := base
	if detected.CountryCodeISO3 != nil {
		iso3 := strings.ToUpper(*detected.CountryCodeISO3)
		rc.DetectedCountry = iso3
		rc.SpecialContext = eligibility.SpecialContext(iso3)
	}

	return rc, nil
}

func textSample(docs []documents.Document) string {
	var parts []string
	for i, doc := range docs {
		if i >= countrySampleDocs {
			break
		}
		if doc.Text != "" {
			parts = append(parts, doc.Text)
		}
	}

	sample := strings.Join(parts, "\n")
	if len(sample) > countrySampleLimit {
		sample = sample[:countrySampleLimit]
	}
	return sample
}

// fanOut runs the needed dimension evaluators concurrently under the
// per-applicant deadline. Evaluate never errors, so every requested
// dimension is present in the returned map; a deadline hit surfaces in
// that dimension's Error field.
func fanOut(
	ctx context.Context,
	rt *Runtime,
	applicantID uuid.UUID,
	rc evaluators.RunContext,
	dims []evaluations.Dimension,
) map[evaluations.Dimension]evaluations.Result {
	evalCtx, cancel := context.WithTimeout(ctx, rt.Settings.EvaluationTimeout)
	defer cancel()

	results := make([]evaluations.Result, len(dims))

	g, gctx := errgroup.WithContext(evalCtx)
	g.SetLimit(workerCount(len(dims)))

	for i, dim := range dims {
		g.Go(func() error {
			results[i] = rt.Evaluators.Evaluate(gctx, applicantID, dim, rc)
			return nil
		})
	}

	// Workers never fail; deadline effects are folded into each result.
	_ = g.Wait()

	out := make(map[evaluations.Dimension]evaluations.Result, len(dims))
	for i, dim := range dims {
		out[dim] = results[i]
	}
	return out
}

func modelFor(rt *Runtime, rc evaluators.RunContext, dim evaluations.Dimension) string {
	if hint := rc.ModelHints[dim]; hint != "" {
		return hint
	}
	if rt.Agent.Model != nil {
		return rt.Agent.Model.Name
	}
	return ""
}

func providerName(rt *Runtime) string {
	if rt.Agent.Provider != nil {
		return rt.Agent.Provider.Name
	}
	return ""
}
