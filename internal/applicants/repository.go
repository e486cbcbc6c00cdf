package applicants

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/pkg/pagination"
	"github.com/JaimeStill/cohort/pkg/query"
	"github.com/JaimeStill/cohort/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an applicant repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "applicants"),
		pagination: pagination,
	}
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Applicant], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "DisplayName", "Email", "FolderName")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count applicants: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanApplicant)
	if err != nil {
		return nil, fmt.Errorf("query applicants: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Applicant, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanApplicant)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) ListByRun(ctx context.Context, runID uuid.UUID) ([]Applicant, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("RunID", &runID).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanApplicant)
	if err != nil {
		return nil, fmt.Errorf("query run applicants: %w", err)
	}
	return items, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Applicant, error) {
	insertQ := `
		INSERT INTO applicants(run_id, display_name, email, folder_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, run_id, display_name, email, folder_name, created_at`

	a, err := repository.QueryOne(ctx, r.db, insertQ,
		[]any{cmd.RunID, cmd.DisplayName, cmd.Email, cmd.FolderName},
		scanApplicant,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("applicant created",
		"id", a.ID,
		"run_id", a.RunID,
		"folder_name", a.FolderName,
	)
	return &a, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM applicants WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("applicant deleted", "id", id)
	return nil
}
