package gating

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/pkg/pagination"
)

// System defines the public contract for gating domain operations.
type System interface {
	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Gating], error)

	Find(ctx context.Context, id uuid.UUID) (*Gating, error)
	FindByApplicant(ctx context.Context, applicantID uuid.UUID) (*Gating, error)
	Record(ctx context.Context, cmd RecordCommand) (*Gating, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
