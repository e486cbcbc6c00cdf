package ranking

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/pkg/pagination"
)

// System defines the public contract for ranking domain operations. It
// owns both the standings table and the pairwise comparison audit trail.
type System interface {
	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Ranking], error)

	Find(ctx context.Context, id uuid.UUID) (*Ranking, error)
	FindByApplicant(ctx context.Context, applicantID uuid.UUID) (*Ranking, error)
	Record(ctx context.Context, cmd RecordCommand) (*Ranking, error)
	SetRank(ctx context.Context, applicantID uuid.UUID, rank int) error
	AppendNote(ctx context.Context, applicantID uuid.UUID, note string) error
	Delete(ctx context.Context, id uuid.UUID) error

	ClearComparisons(ctx context.Context, runID uuid.UUID) error
	RecordComparison(ctx context.Context, cmd ComparisonCommand) (*Comparison, error)
	ListComparisons(ctx context.Context, runID uuid.UUID) ([]Comparison, error)
}
