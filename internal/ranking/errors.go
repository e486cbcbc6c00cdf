package ranking

import "errors"

// Domain errors for ranking operations.
var (
	ErrNotFound  = errors.New("ranking not found")
	ErrDuplicate = errors.New("ranking already exists")
)
