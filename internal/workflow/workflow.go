package workflow

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/cohort/internal/runs"
)

// Execute runs the assessment workflow for a single run. It marks the run
// as processing, builds the state graph (init → evaluate → gate → rank? →
// finalize), executes it, and extracts the RunResult from the final state.
// The run status ends at completed or failed accordingly.
func Execute(ctx context.Context, rt *Runtime, runID uuid.UUID) (*RunResult, error) {
	if err := rt.Runs.SetStatus(ctx, runID, runs.StatusProcessing); err != nil {
		return nil, fmt.Errorf("mark run processing: %w", err)
	}

	result, err := execute(ctx, rt, runID)
	if err != nil {
		failCtx := context.WithoutCancel(ctx)
		if statusErr := rt.Runs.SetStatus(failCtx, runID, runs.StatusFailed); statusErr != nil {
			rt.Logger.Error(
				"failed to mark run failed",
				"run_id", runID,
				"error", statusErr,
			)
		}
		return nil, err
	}

	if err := rt.Runs.SetStatus(ctx, runID, runs.StatusCompleted); err != nil {
		return nil, fmt.Errorf("mark run completed: %w", err)
	}

	return result, nil
}

func execute(ctx context.Context, rt *Runtime, runID uuid.UUID) (*RunResult, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyRunID, runID)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractResult(finalState)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("cohort-assess")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("init", InitNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("evaluate", EvaluateNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("gate", GateNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("rank", RankNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("finalize", FinalizeNode(rt)); err != nil {
		return nil, err
	}

	// init → evaluate (unconditional)
	if err := graph.AddEdge("init", "evaluate", nil); err != nil {
		return nil, err
	}

	// evaluate → gate (unconditional)
	if err := graph.AddEdge("evaluate", "gate", nil); err != nil {
		return nil, err
	}

	// gate → rank (when any applicant landed in the middle band)
	if err := graph.AddEdge("gate", "rank", hasMiddle); err != nil {
		return nil, err
	}

	// gate → finalize (when nothing needs ranking)
	if err := graph.AddEdge("gate", "finalize", state.Not(hasMiddle)); err != nil {
		return nil, err
	}

	// rank → finalize (unconditional)
	if err := graph.AddEdge("rank", "finalize", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("init"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("finalize"); err != nil {
		return nil, err
	}

	return graph, nil
}

func extractResult(s state.State) (*RunResult, error) {
	val, ok := s.Get(KeyRunResult)
	if !ok {
		return nil, fmt.Errorf("missing %s in final state", KeyRunResult)
	}

	result, ok := val.(RunResult)
	if !ok {
		return nil, fmt.Errorf("%s is not RunResult", KeyRunResult)
	}

	return &result, nil
}

func extractRunID(s state.State) (uuid.UUID, error) {
	val, ok := s.Get(KeyRunID)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: missing %s in state", ErrRunNotFound, KeyRunID)
	}

	runID, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: %s is not uuid.UUID", ErrRunNotFound, KeyRunID)
	}

	return runID, nil
}

func extractAssessState(s state.State) (*AssessmentState, error) {
	val, ok := s.Get(KeyAssessState)
	if !ok {
		return nil, fmt.Errorf("missing %s in state", KeyAssessState)
	}

	st, ok := val.(AssessmentState)
	if !ok {
		return nil, fmt.Errorf("%s is not AssessmentState", KeyAssessState)
	}

	return &st, nil
}

func hasMiddle(s state.State) bool {
	st, err := extractAssessState(s)
	if err != nil {
		return false
	}
	return st.HasMiddle()
}

func workerCount(n int) int {
	return max(min(runtime.NumCPU(), n), 1)
}
