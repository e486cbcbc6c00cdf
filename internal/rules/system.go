package rules

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/pkg/pagination"
)

// System defines the public contract for rule set domain operations.
type System interface {
	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[RuleSet], error)

	Find(ctx context.Context, id uuid.UUID) (*RuleSet, error)
	FindByName(ctx context.Context, name string) (*RuleSet, error)
	Create(ctx context.Context, cmd CreateCommand) (*RuleSet, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
