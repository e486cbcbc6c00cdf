package gating

import (
	"context"
	"database/sql"
	"encoding/json"
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

// New creates a gating repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "gating"),
		pagination: pagination,
	}
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Gating], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort)

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count gating decisions: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanGating)
	if err != nil {
		return nil, fmt.Errorf("query gating decisions: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Gating, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	g, err := repository.QueryOne(ctx, r.db, q, args, scanGating)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &g, nil
}

func (r *repo) FindByApplicant(ctx context.Context, applicantID uuid.UUID) (*Gating, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ApplicantID", applicantID)

	g, err := repository.QueryOne(ctx, r.db, q, args, scanGating)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &g, nil
}

// Record upserts a decision. Re-running an assessment overwrites the
// previous decision for the same applicant.
func (r *repo) Record(ctx context.Context, cmd RecordCommand) (*Gating, error) {
	reasons := cmd.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	reasonsJSON, err := json.Marshal(reasons)
	if err != nil {
		return nil, fmt.Errorf("marshal reasons: %w", err)
	}

	upsertQ := `
		INSERT INTO applicant_gating(applicant_id, run_id, decision, reasons)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (applicant_id) DO UPDATE SET
			run_id = EXCLUDED.run_id,
			decision = EXCLUDED.decision,
			reasons = EXCLUDED.reasons,
			decided_at = NOW()
		RETURNING id, applicant_id, run_id, decision, reasons, decided_at`

	g, err := repository.QueryOne(ctx, r.db, upsertQ,
		[]any{cmd.ApplicantID, cmd.RunID, cmd.Decision, reasonsJSON},
		scanGating,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("gating decision recorded",
		"id", g.ID,
		"applicant_id", g.ApplicantID,
		"decision", g.Decision,
		"reasons", g.Reasons,
	)
	return &g, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM applicant_gating WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("gating decision deleted", "id", id)
	return nil
}
