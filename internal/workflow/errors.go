package workflow

import "errors"

// Sentinel errors for workflow operations.
var (
	ErrRunNotFound     = errors.New("run not found")
	ErrRuleSetNotFound = errors.New("rule set not found")
	ErrEvaluateFailed  = errors.New("evaluation failed")
	ErrGateFailed      = errors.New("gating failed")
	ErrRankFailed      = errors.New("ranking failed")
)
