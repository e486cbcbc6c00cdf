package ranking_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/internal/ranking"
	"github.com/JaimeStill/cohort/pkg/pagination"
)

type fakeComparator struct {
	verdicts []ranking.Verdict
	err      error
	calls    int
}

func (c *fakeComparator) Compare(ctx context.Context, a, b ranking.Profile) (ranking.Verdict, error) {
	c.calls++
	if c.err != nil {
		return ranking.Verdict{}, c.err
	}
	if len(c.verdicts) == 0 {
		return ranking.Verdict{Winner: ranking.WinnerTie, Reason: "no verdict scripted"}, nil
	}
	v := c.verdicts[0]
	c.verdicts = c.verdicts[1:]
	return v, nil
}

type fakeRankings struct {
	cleared     []uuid.UUID
	comparisons []ranking.ComparisonCommand
	ranks       map[uuid.UUID]int
	notes       map[uuid.UUID][]string
}

func newFakeRankings() *fakeRankings {
	return &fakeRankings{
		ranks: make(map[uuid.UUID]int),
		notes: make(map[uuid.UUID][]string),
	}
}

func (f *fakeRankings) List(ctx context.Context, page pagination.PageRequest, filters ranking.Filters) (*pagination.PageResult[ranking.Ranking], error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRankings) Find(ctx context.Context, id uuid.UUID) (*ranking.Ranking, error) {
	return nil, ranking.ErrNotFound
}

func (f *fakeRankings) FindByApplicant(ctx context.Context, applicantID uuid.UUID) (*ranking.Ranking, error) {
	return nil, ranking.ErrNotFound
}

func (f *fakeRankings) Record(ctx context.Context, cmd ranking.RecordCommand) (*ranking.Ranking, error) {
	return &ranking.Ranking{ApplicantID: cmd.ApplicantID}, nil
}

func (f *fakeRankings) SetRank(ctx context.Context, applicantID uuid.UUID, rank int) error {
	f.ranks[applicantID] = rank
	return nil
}

func (f *fakeRankings) AppendNote(ctx context.Context, applicantID uuid.UUID, note string) error {
	f.notes[applicantID] = append(f.notes[applicantID], note)
	return nil
}

func (f *fakeRankings) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeRankings) ClearComparisons(ctx context.Context, runID uuid.UUID) error {
	f.cleared = append(f.cleared, runID)
	return nil
}

func (f *fakeRankings) RecordComparison(ctx context.Context, cmd ranking.ComparisonCommand) (*ranking.Comparison, error) {
	f.comparisons = append(f.comparisons, cmd)
	return &ranking.Comparison{RunID: cmd.RunID}, nil
}

func (f *fakeRankings) ListComparisons(ctx context.Context, runID uuid.UUID) ([]ranking.Comparison, error) {
	return nil, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRefineSwapsOnContradiction(t *testing.T) {
	runID := uuid.New()
	first := uuid.New()
	second := uuid.New()

	standings := []ranking.Standing{
		{ApplicantID: first, Score: 6.2},
		{ApplicantID: second, Score: 6.0},
	}

	comparator := &fakeComparator{
		verdicts: []ranking.Verdict{
			{Winner: ranking.WinnerB, Reason: "stronger research record"},
		},
	}
	rankings := newFakeRankings()

	refiner := ranking.NewRefiner(comparator, rankings, discardLogger())
	err := refiner.Refine(context.Background(), runID, standings, ranking.RefineConfig{Passes: 1, Epsilon: 0.3})
	if err != nil {
		t.Fatalf("Refine() error: %v", err)
	}

	if len(rankings.cleared) != 1 || rankings.cleared[0] != runID {
		t.Errorf("ClearComparisons calls = %v, want one for run", rankings.cleared)
	}
	if comparator.calls != 1 {
		t.Errorf("comparator calls = %d, want 1", comparator.calls)
	}
	if rankings.ranks[second] != 1 || rankings.ranks[first] != 2 {
		t.Errorf("ranks = %v, want winner promoted to 1", rankings.ranks)
	}
	if len(rankings.comparisons) != 1 {
		t.Fatalf("comparisons recorded = %d, want 1", len(rankings.comparisons))
	}
	if rankings.comparisons[0].Winner != ranking.WinnerB {
		t.Errorf("recorded winner = %q, want %q", rankings.comparisons[0].Winner, ranking.WinnerB)
	}
	if rankings.comparisons[0].PassIndex != 0 {
		t.Errorf("pass index = %d, want 0", rankings.comparisons[0].PassIndex)
	}
}

func TestRefineSkipsWideGaps(t *testing.T) {
	runID := uuid.New()
	first := uuid.New()
	second := uuid.New()

	standings := []ranking.Standing{
		{ApplicantID: first, Score: 8.0},
		{ApplicantID: second, Score: 5.0},
	}

	comparator := &fakeComparator{}
	rankings := newFakeRankings()

	refiner := ranking.NewRefiner(comparator, rankings, discardLogger())
	err := refiner.Refine(context.Background(), runID, standings, ranking.RefineConfig{Passes: 2, Epsilon: 0.3})
	if err != nil {
		t.Fatalf("Refine() error: %v", err)
	}

	if comparator.calls != 0 {
		t.Errorf("comparator calls = %d, want 0 for wide gap", comparator.calls)
	}
	if rankings.ranks[first] != 1 || rankings.ranks[second] != 2 {
		t.Errorf("ranks = %v, want score order preserved", rankings.ranks)
	}
}

func TestRefineComparatorErrorIsTie(t *testing.T) {
	runID := uuid.New()
	first := uuid.New()
	second := uuid.New()

	standings := []ranking.Standing{
		{ApplicantID: first, Score: 6.2},
		{ApplicantID: second, Score: 6.0},
	}

	comparator := &fakeComparator{err: errors.New("provider unavailable")}
	rankings := newFakeRankings()

	refiner := ranking.NewRefiner(comparator, rankings, discardLogger())
	err := refiner.Refine(context.Background(), runID, standings, ranking.RefineConfig{Passes: 1, Epsilon: 0.3})
	if err != nil {
		t.Fatalf("Refine() error: %v", err)
	}

	if len(rankings.comparisons) != 1 {
		t.Fatalf("comparisons recorded = %d, want 1", len(rankings.comparisons))
	}
	if rankings.comparisons[0].Winner != ranking.WinnerTie {
		t.Errorf("recorded winner = %q, want tie", rankings.comparisons[0].Winner)
	}
	if rankings.ranks[first] != 1 || rankings.ranks[second] != 2 {
		t.Errorf("ranks = %v, want order unchanged on tie", rankings.ranks)
	}
}

func TestRefineAppendsNotesToBothSides(t *testing.T) {
	runID := uuid.New()
	first := uuid.New()
	second := uuid.New()

	standings := []ranking.Standing{
		{ApplicantID: first, Score: 6.2},
		{ApplicantID: second, Score: 6.0},
	}

	comparator := &fakeComparator{
		verdicts: []ranking.Verdict{
			{Winner: ranking.WinnerA, Reason: "clearer statement of purpose"},
		},
	}
	rankings := newFakeRankings()

	refiner := ranking.NewRefiner(comparator, rankings, discardLogger())
	err := refiner.Refine(context.Background(), runID, standings, ranking.RefineConfig{Passes: 1, Epsilon: 0.3})
	if err != nil {
		t.Fatalf("Refine() error: %v", err)
	}

	for _, id := range []uuid.UUID{first, second} {
		notes := rankings.notes[id]
		if len(notes) != 1 {
			t.Fatalf("notes for %s = %d, want 1", id, len(notes))
		}
		if !strings.HasPrefix(notes[0], "BT vs ") || !strings.Contains(notes[0], "clearer statement of purpose") {
			t.Errorf("note = %q, want comparison summary", notes[0])
		}
	}
}

func TestRefineCanceledContext(t *testing.T) {
	runID := uuid.New()

	standings := []ranking.Standing{
		{ApplicantID: uuid.New(), Score: 6.2},
		{ApplicantID: uuid.New(), Score: 6.0},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	comparator := &fakeComparator{err: errors.New("context canceled")}
	rankings := newFakeRankings()

	refiner := ranking.NewRefiner(comparator, rankings, discardLogger())
	err := refiner.Refine(ctx, runID, standings, ranking.RefineConfig{Passes: 1, Epsilon: 0.3})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Refine() error = %v, want context.Canceled", err)
	}
}
