package evaluators_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/internal/documents"
	"github.com/JaimeStill/cohort/internal/eligibility"
	"github.com/JaimeStill/cohort/internal/evaluations"
	"github.com/JaimeStill/cohort/internal/evaluators"
	"github.com/JaimeStill/cohort/internal/judge"
	"github.com/JaimeStill/cohort/internal/ranking"
	"github.com/JaimeStill/cohort/pkg/pagination"
)

type fakeInvoker struct {
	responses []string
	err       error
	requests  []judge.Request
}

func (f *fakeInvoker) Invoke(ctx context.Context, req judge.Request) (string, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", errors.New("no response scripted")
	}
	r := f.responses[0]
	f.responses = f.responses[1:]
	return r, nil
}

type fakeDocs struct {
	docs []documents.Document
}

func (f *fakeDocs) List(ctx context.Context, page pagination.PageRequest, filters documents.Filters) (*pagination.PageResult[documents.Document], error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDocs) Find(ctx context.Context, id uuid.UUID) (*documents.Document, error) {
	for i := range f.docs {
		if f.docs[i].ID == id {
			return &f.docs[i], nil
		}
	}
	return nil, documents.ErrNotFound
}

func (f *fakeDocs) ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]documents.Document, error) {
	return f.docs, nil
}

func (f *fakeDocs) Search(ctx context.Context, applicantID uuid.UUID, term string, maxResults int) ([]documents.Match, error) {
	return nil, nil
}

func (f *fakeDocs) Create(ctx context.Context, cmd documents.CreateCommand) (*documents.Document, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDocs) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func newEvaluators(t *testing.T, invoker judge.Invoker, docs documents.System) *evaluators.Evaluators {
	t.Helper()

	china, err := eligibility.NewChina()
	if err != nil {
		t.Fatalf("NewChina() error: %v", err)
	}
	india, err := eligibility.NewIndia()
	if err != nil {
		t.Fatalf("NewIndia() error: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return evaluators.New(invoker, docs, china, india, logger)
}

func TestEvaluateEnglishExemption(t *testing.T) {
	invoker := &fakeInvoker{
		responses: []string{
			`{"exemption": true, "test_type": null, "test_overall": null, "level": "level2", "score": null, "evidence": ["British national"]}`,
		},
	}
	e := newEvaluators(t, invoker, &fakeDocs{})

	result := e.Evaluate(context.Background(), uuid.New(), evaluations.DimensionEnglish, evaluators.RunContext{
		EnglishLevelHint: "level2",
	})

	if result.Failed() {
		t.Fatalf("result failed: %s", result.Error)
	}
	if result.Score == nil || *result.Score != 10 {
		t.Errorf("score = %v, want 10 for exemption", result.Score)
	}
	if !slices.Contains(result.Evidence, "British national") {
		t.Errorf("evidence = %v, want model evidence preserved", result.Evidence)
	}
}

func TestEvaluateRetriesMalformedResponse(t *testing.T) {
	invoker := &fakeInvoker{
		responses: []string{
			"I think this applicant has strong English skills overall.",
			`{"exemption": false, "test_type": "IELTS", "test_overall": 7.5, "level": "level2", "score": 7.0, "evidence": []}`,
		},
	}
	e := newEvaluators(t, invoker, &fakeDocs{})

	result := e.Evaluate(context.Background(), uuid.New(), evaluations.DimensionEnglish, evaluators.RunContext{})

	if len(invoker.requests) != 2 {
		t.Fatalf("invocations = %d, want 2", len(invoker.requests))
	}
	if strings.Contains(invoker.requests[0].Instructions, "MANDATORY") {
		t.Error("first attempt should not carry the strict suffix")
	}
	if !strings.Contains(invoker.requests[1].Instructions, "MANDATORY") {
		t.Error("second attempt should carry the strict suffix")
	}
	if result.Score == nil || *result.Score != 7.0 {
		t.Errorf("score = %v, want 7.0 from retry", result.Score)
	}
}

func TestEvaluateDoubleMalformedDegrades(t *testing.T) {
	invoker := &fakeInvoker{
		responses: []string{
			"not json at all",
			"still not json",
		},
	}
	e := newEvaluators(t, invoker, &fakeDocs{})

	result := e.Evaluate(context.Background(), uuid.New(), evaluations.DimensionEnglish, evaluators.RunContext{
		EnglishLevelHint: "level2",
	})

	if result.Score != nil {
		t.Errorf("score = %v, want nil after double violation", *result.Score)
	}
	if result.Failed() {
		t.Errorf("error = %q, want clean null result for contract violation", result.Error)
	}
	if !strings.Contains(string(result.Details), "level2") {
		t.Errorf("details = %s, want level hint in fallback", result.Details)
	}
}

func TestEvaluateTransportError(t *testing.T) {
	invoker := &fakeInvoker{err: errors.New("connection refused")}
	e := newEvaluators(t, invoker, &fakeDocs{})

	result := e.Evaluate(context.Background(), uuid.New(), evaluations.DimensionDegree, evaluators.RunContext{})

	if len(invoker.requests) != 1 {
		t.Errorf("invocations = %d, want 1 without retry on transport error", len(invoker.requests))
	}
	if !result.Failed() {
		t.Fatal("result should carry the transport error")
	}
	if !strings.Contains(result.Error, "connection refused") {
		t.Errorf("error = %q, want transport error text", result.Error)
	}
}

func TestEvaluateUnknownDimension(t *testing.T) {
	e := newEvaluators(t, &fakeInvoker{}, &fakeDocs{})

	result := e.Evaluate(context.Background(), uuid.New(), evaluations.Dimension("vibes"), evaluators.RunContext{})

	if !result.Failed() {
		t.Fatal("unknown dimension should fail")
	}
	if !strings.Contains(result.Error, "vibes") {
		t.Errorf("error = %q, want dimension name", result.Error)
	}
}

func TestEvaluateEchoesUserDefinedItems(t *testing.T) {
	invoker := &fakeInvoker{
		responses: []string{
			`{"exemption": false, "test_type": "IELTS", "test_overall": 8.0, "level": "level2", "score": 10, "evidence": ["IELTS certificate found"]}`,
		},
	}
	e := newEvaluators(t, invoker, &fakeDocs{})

	item := "[USER DEFINED] Must hold IELTS taken within two years"
	result := e.Evaluate(context.Background(), uuid.New(), evaluations.DimensionEnglish, evaluators.RunContext{
		Checklists: map[evaluations.Dimension][]string{
			evaluations.DimensionEnglish: {item, "Standard requirement"},
		},
	})

	if !slices.Contains(result.Evidence, item) {
		t.Errorf("evidence = %v, want user-defined item echoed", result.Evidence)
	}
	if slices.Contains(result.Evidence, "Standard requirement") {
		t.Error("unmarked checklist items should not be echoed")
	}
}

func TestClassifyRequirements(t *testing.T) {
	invoker := &fakeInvoker{
		responses: []string{
			`{"classifications": [
				{"requirement": "IELTS 7.5 minimum", "dimension": "english", "priority": "high", "reasoning": "language test"},
				{"requirement": "Two years industry work", "dimension": "experience", "priority": "normal", "reasoning": "work history"},
				{"requirement": "Nice handwriting", "dimension": "penmanship", "priority": "normal", "reasoning": "unsupported"}
			]}`,
		},
	}
	e := newEvaluators(t, invoker, &fakeDocs{})

	classified := e.ClassifyRequirements(context.Background(), []string{
		"IELTS 7.5 minimum",
		"Two years industry work",
		"Nice handwriting",
	}, "")

	if want := "[USER DEFINED] IELTS 7.5 minimum"; !slices.Contains(classified[evaluations.DimensionEnglish], want) {
		t.Errorf("english checklist = %v, want %q", classified[evaluations.DimensionEnglish], want)
	}
	if want := "[USER DEFINED] Two years industry work"; !slices.Contains(classified[evaluations.DimensionExperience], want) {
		t.Errorf("experience checklist = %v, want %q", classified[evaluations.DimensionExperience], want)
	}

	total := 0
	for _, dim := range evaluations.Dimensions {
		if classified[dim] == nil {
			t.Errorf("checklist for %s is nil, want empty slice", dim)
		}
		total += len(classified[dim])
	}
	if total != 2 {
		t.Errorf("classified items = %d, want 2 with unknown dimension dropped", total)
	}
}

func TestClassifyRequirementsFallback(t *testing.T) {
	invoker := &fakeInvoker{
		responses: []string{"no dice", "still no dice"},
	}
	e := newEvaluators(t, invoker, &fakeDocs{})

	requirements := []string{"IELTS 7.5 minimum", "Two years industry work"}
	classified := e.ClassifyRequirements(context.Background(), requirements, "")

	degree := classified[evaluations.DimensionDegree]
	if len(degree) != len(requirements) {
		t.Fatalf("degree checklist = %v, want all requirements on fallback", degree)
	}
	for i, req := range requirements {
		want := "[USER DEFINED] " + req
		if degree[i] != want {
			t.Errorf("degree[%d] = %q, want %q", i, degree[i], want)
		}
	}
}

func TestClassifyRequirementsEmpty(t *testing.T) {
	invoker := &fakeInvoker{}
	e := newEvaluators(t, invoker, &fakeDocs{})

	classified := e.ClassifyRequirements(context.Background(), nil, "")

	if len(invoker.requests) != 0 {
		t.Errorf("invocations = %d, want 0 for no requirements", len(invoker.requests))
	}
	for _, dim := range evaluations.Dimensions {
		if items := classified[dim]; items == nil || len(items) != 0 {
			t.Errorf("checklist for %s = %v, want empty slice", dim, items)
		}
	}
}

func TestDetectDegreeCountry(t *testing.T) {
	t.Run("detected", func(t *testing.T) {
		invoker := &fakeInvoker{
			responses: []string{`{"country_name": "China", "country_code_iso3": "CHN"}`},
		}
		e := newEvaluators(t, invoker, &fakeDocs{})

		detected := e.DetectDegreeCountry(context.Background(), "Bachelor of Engineering, Tsinghua University")

		if detected.CountryCodeISO3 == nil || *detected.CountryCodeISO3 != "CHN" {
			t.Errorf("country code = %v, want CHN", detected.CountryCodeISO3)
		}
	})

	t.Run("failure degrades to empty", func(t *testing.T) {
		invoker := &fakeInvoker{err: errors.New("provider unavailable")}
		e := newEvaluators(t, invoker, &fakeDocs{})

		detected := e.DetectDegreeCountry(context.Background(), "some text")

		if detected.CountryCodeISO3 != nil || detected.CountryName != nil {
			t.Errorf("detection = %+v, want empty on failure", detected)
		}
	})
}

func TestComparatorCompare(t *testing.T) {
	tests := []struct {
		name       string
		responses  []string
		err        error
		wantWinner string
		wantReason string
		wantErr    bool
	}{
		{
			name:       "valid verdict",
			responses:  []string{`{"winner": "A", "reason": "stronger degree"}`},
			wantWinner: ranking.WinnerA,
			wantReason: "stronger degree",
		},
		{
			name: "invalid winner retried",
			responses: []string{
				`{"winner": "C", "reason": "confused"}`,
				`{"winner": "B", "reason": "better experience"}`,
			},
			wantWinner: ranking.WinnerB,
			wantReason: "better experience",
		},
		{
			name:       "double violation defaults to tie",
			responses:  []string{"not json", "still not json"},
			wantWinner: ranking.WinnerTie,
			wantReason: "undecided",
		},
		{
			name:    "transport error propagates",
			err:     errors.New("provider unavailable"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoker := &fakeInvoker{responses: tt.responses, err: tt.err}
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			comparator := evaluators.NewComparator(invoker, "", logger)

			verdict, err := comparator.Compare(context.Background(),
				ranking.Profile{}, ranking.Profile{})

			if tt.wantErr {
				if err == nil {
					t.Fatal("Compare() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Compare() error: %v", err)
			}
			if verdict.Winner != tt.wantWinner {
				t.Errorf("winner = %q, want %q", verdict.Winner, tt.wantWinner)
			}
			if verdict.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", verdict.Reason, tt.wantReason)
			}
		})
	}
}
