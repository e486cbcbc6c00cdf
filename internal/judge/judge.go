// Package judge defines the judgment-call contract: every place the pipeline
// needs a model's opinion goes through an Invoker, which takes a structured
// request and returns raw response text for the caller to parse.
package judge

import (
	"context"
	"errors"
)

var (
	// ErrInvokeFailed indicates the model call itself failed.
	ErrInvokeFailed = errors.New("judgment invocation failed")

	// ErrToolBudgetExceeded indicates the model kept requesting tools past
	// the per-invocation dispatch limit.
	ErrToolBudgetExceeded = errors.New("tool dispatch budget exceeded")
)

// Tool is a deterministic capability exposed to the model during an
// invocation. Implementations must be safe for concurrent use.
type Tool interface {
	Name() string
	Description() string
	Call(ctx context.Context, args map[string]any) (any, error)
}

// Request describes a single judgment call.
type Request struct {
	// Role is a short persona line ("senior admissions officer").
	Role string

	// Instructions is the task rubric, including the expected response
	// shape.
	Instructions string

	// Content is the material under judgment.
	Content string

	// Tools lists the capabilities the model may request during this
	// invocation. Empty means a plain single-shot call.
	Tools []Tool

	// ModelHint overrides the configured model name when non-empty.
	ModelHint string
}

// Invoker sends a judgment call to a model and returns the raw response
// text. Callers own parsing and retry policy.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (string, error)
}
