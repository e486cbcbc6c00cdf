package runs

import "errors"

// Domain errors for run operations.
var (
	ErrNotFound      = errors.New("run not found")
	ErrDuplicate     = errors.New("run already exists")
	ErrInvalidStatus = errors.New("invalid run status")
)
