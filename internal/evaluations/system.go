package evaluations

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/pkg/pagination"
)

// System defines the public contract for evaluation domain operations.
type System interface {
	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Evaluation], error)

	Find(ctx context.Context, id uuid.UUID) (*Evaluation, error)
	FindByApplicant(ctx context.Context, applicantID uuid.UUID) (map[Dimension]Evaluation, error)
	Record(ctx context.Context, cmd RecordCommand) (*Evaluation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
