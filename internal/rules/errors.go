package rules

import "errors"

// Domain errors for rule set operations.
var (
	ErrNotFound  = errors.New("rule set not found")
	ErrDuplicate = errors.New("rule set already exists")
)
