package evaluations

import "errors"

// Domain errors for evaluation operations.
var (
	ErrNotFound         = errors.New("evaluation not found")
	ErrDuplicate        = errors.New("evaluation already exists")
	ErrUnknownDimension = errors.New("unknown evaluation dimension")
)
