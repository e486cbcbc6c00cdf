package gating

import "errors"

// Domain errors for gating operations.
var (
	ErrNotFound  = errors.New("gating decision not found")
	ErrDuplicate = errors.New("gating decision already exists")
)
