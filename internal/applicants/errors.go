package applicants

import "errors"

// Domain errors for applicant operations.
var (
	ErrNotFound  = errors.New("applicant not found")
	ErrDuplicate = errors.New("applicant already exists")
)
