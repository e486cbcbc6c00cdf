package documents

import "errors"

// Domain errors for document operations.
var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("document already exists")
)
