package applicants

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/pkg/pagination"
)

// System defines the public contract for applicant domain operations.
type System interface {
	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Applicant], error)

	Find(ctx context.Context, id uuid.UUID) (*Applicant, error)
	ListByRun(ctx context.Context, runID uuid.UUID) ([]Applicant, error)
	Create(ctx context.Context, cmd CreateCommand) (*Applicant, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
