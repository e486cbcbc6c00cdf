package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/pkg/pagination"
)

// System defines the public contract for document domain operations.
type System interface {
	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]Document, error)
	Search(ctx context.Context, applicantID uuid.UUID, term string, maxResults int) ([]Match, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
