package workflow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/internal/documents"
	"github.com/JaimeStill/cohort/internal/eligibility"
	"github.com/JaimeStill/cohort/internal/evaluations"
	"github.com/JaimeStill/cohort/internal/evaluators"
	"github.com/JaimeStill/cohort/internal/gating"
	"github.com/JaimeStill/cohort/internal/judge"
)

func TestModelHints(t *testing.T) {
	hints := modelHints(map[string]string{
		"english":    "small-model",
		"degree":     "large-model",
		"classifier": "tiny-model",
		"nonsense":   "ignored",
	})

	if len(hints) != 2 {
		t.Fatalf("hints = %v, want only valid dimensions", hints)
	}
	if hints[evaluations.DimensionEnglish] != "small-model" {
		t.Errorf("english hint = %q, want small-model", hints[evaluations.DimensionEnglish])
	}
	if hints[evaluations.DimensionDegree] != "large-model" {
		t.Errorf("degree hint = %q, want large-model", hints[evaluations.DimensionDegree])
	}
}

func TestTextSample(t *testing.T) {
	doc := func(text string) documents.Document {
		return documents.Document{Text: text}
	}

	tests := []struct {
		name string
		docs []documents.Document
		want string
	}{
		{
			name: "joins first documents",
			docs: []documents.Document{doc("one"), doc("two"), doc("three")},
			want: "one\ntwo\nthree",
		},
		{
			name: "caps at three documents",
			docs: []documents.Document{doc("one"), doc("two"), doc("three"), doc("four")},
			want: "one\ntwo\nthree",
		},
		{
			name: "skips empty text",
			docs: []documents.Document{doc(""), doc("two")},
			want: "two",
		},
		{
			name: "no documents",
			docs: nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := textSample(tt.docs); got != tt.want {
				t.Errorf("textSample() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTextSampleLimit(t *testing.T) {
	long := documents.Document{Text: strings.Repeat("x", countrySampleLimit*2)}

	sample := textSample([]documents.Document{long})
	if len(sample) != countrySampleLimit {
		t.Errorf("sample length = %d, want %d", len(sample), countrySampleLimit)
	}
}

func TestResultsView(t *testing.T) {
	errText := "deadline exceeded"
	score := 7.5

	evals := map[evaluations.Dimension]evaluations.Evaluation{
		evaluations.DimensionDegree: {
			Dimension: evaluations.DimensionDegree,
			Score:     &score,
			Evidence:  []string{"transcript"},
		},
		evaluations.DimensionEnglish: {
			Dimension: evaluations.DimensionEnglish,
			Error:     &errText,
		},
	}

	results := resultsView(evals)

	degree := results[evaluations.DimensionDegree]
	if degree.Score == nil || *degree.Score != 7.5 {
		t.Errorf("degree score = %v, want 7.5", degree.Score)
	}
	if degree.Failed() {
		t.Errorf("degree error = %q, want clean result", degree.Error)
	}

	english := results[evaluations.DimensionEnglish]
	if english.Error != errText {
		t.Errorf("english error = %q, want %q", english.Error, errText)
	}
}

func TestTally(t *testing.T) {
	decisions := map[uuid.UUID]gating.Decision{
		uuid.New(): gating.DecisionAccept,
		uuid.New(): gating.DecisionReject,
		uuid.New(): gating.DecisionReject,
		uuid.New(): gating.DecisionMiddle,
	}

	accepted, rejected, middle := tally(decisions)
	if accepted != 1 || rejected != 2 || middle != 1 {
		t.Errorf("tally = (%d, %d, %d), want (1, 2, 1)", accepted, rejected, middle)
	}
}

func TestHasMiddle(t *testing.T) {
	st := AssessmentState{
		Decisions: map[uuid.UUID]gating.Decision{
			uuid.New(): gating.DecisionAccept,
		},
	}
	if st.HasMiddle() {
		t.Error("HasMiddle() = true for accept-only decisions")
	}

	st.Decisions[uuid.New()] = gating.DecisionMiddle
	if !st.HasMiddle() {
		t.Error("HasMiddle() = false with a middle decision present")
	}
}

func TestWorkerCount(t *testing.T) {
	if got := workerCount(0); got != 1 {
		t.Errorf("workerCount(0) = %d, want 1", got)
	}
	if got := workerCount(1); got != 1 {
		t.Errorf("workerCount(1) = %d, want 1", got)
	}
	if got := workerCount(5); got < 1 || got > 5 {
		t.Errorf("workerCount(5) = %d, want within [1, 5]", got)
	}
}

type failingInvoker struct{}

func (failingInvoker) Invoke(ctx context.Context, req judge.Request) (string, error) {
	return "", errors.New("provider unavailable")
}

func TestFanOutCoversEveryDimension(t *testing.T) {
	china, err := eligibility.NewChina()
	if err != nil {
		t.Fatalf("NewChina() error: %v", err)
	}
	india, err := eligibility.NewIndia()
	if err != nil {
		t.Fatalf("NewIndia() error: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rt := &Runtime{
		Evaluators: evaluators.New(failingInvoker{}, nil, china, india, logger),
		Settings:   Settings{EvaluationTimeout: time.Second},
		Logger:     logger,
	}

	results := fanOut(context.Background(), rt, uuid.New(), evaluators.RunContext{}, evaluations.Dimensions)

	if len(results) != len(evaluations.Dimensions) {
		t.Fatalf("results = %d entries, want %d", len(results), len(evaluations.Dimensions))
	}
	for _, dim := range evaluations.Dimensions {
		result, ok := results[dim]
		if !ok {
			t.Fatalf("missing result for %s", dim)
		}
		if result.Dimension != dim {
			t.Errorf("result dimension = %s, want %s", result.Dimension, dim)
		}
		if !result.Failed() {
			t.Errorf("result for %s should carry the transport error", dim)
		}
	}
}
