package evaluations

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

// New creates an evaluation repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "evaluations"),
		pagination: pagination,
	}
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Evaluation], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Dimension", "ModelName")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count evaluations: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanEvaluation)
	if err != nil {
		return nil, fmt.Errorf("query evaluations: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Evaluation, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	e, err := repository.QueryOne(ctx, r.db, q, args, scanEvaluation)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

func (r *repo) FindByApplicant(ctx context.Context, applicantID uuid.UUID) (map[Dimension]Evaluation, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("ApplicantID", &applicantID).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanEvaluation)
	if err != nil {
		return nil, fmt.Errorf("query applicant evaluations: %w", err)
	}

	results := make(map[Dimension]Evaluation, len(items))
	for _, e := range items {
		results[e.Dimension] = e
	}
	return results, nil
}

// Record upserts one dimension result. Re-running an assessment overwrites
// the previous row for the same applicant and dimension.
func (r *repo) Record(ctx context.Context, cmd RecordCommand) (*Evaluation, error) {
	if !cmd.Result.Dimension.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDimension, cmd.Result.Dimension)
	}

	evidence := cmd.Result.Evidence
	if evidence == nil {
		evidence = []string{}
	}
	evidenceJSON, err := json.Marshal(evidence)
	if err != nil {
		return nil, fmt.Errorf("marshal evidence: %w", err)
	}

	details := cmd.Result.Details
	if len(details) == 0 {
		details = json.RawMessage("{}")
	}

	var evalError *string
	if cmd.Result.Error != "" {
		evalError = &cmd.Result.Error
	}

	upsertQ := `
		INSERT INTO applicant_evaluations(
			applicant_id, run_id, dimension, score, details,
			evidence, error, model_name, provider_name
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (applicant_id, dimension) DO UPDATE SET
			run_id = EXCLUDED.run_id,
			score = EXCLUDED.score,
			details = EXCLUDED.details,
			evidence = EXCLUDED.evidence,
			error = EXCLUDED.error,
			model_name = EXCLUDED.model_name,
			provider_name = EXCLUDED.provider_name,
			evaluated_at = NOW()
		RETURNING id, applicant_id, run_id, dimension, score, details,
				  evidence, error, model_name, provider_name, evaluated_at`

	upsertArgs := []any{
		cmd.ApplicantID,
		cmd.RunID,
		cmd.Result.Dimension,
		cmd.Result.Score,
		[]byte(details),
		evidenceJSON,
		evalError,
		cmd.ModelName,
		cmd.ProviderName,
	}

	e, err := repository.QueryOne(ctx, r.db, upsertQ, upsertArgs, scanEvaluation)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("evaluation recorded",
		"id", e.ID,
		"applicant_id", e.ApplicantID,
		"dimension", e.Dimension,
		"score", e.Score,
		"failed", cmd.Result.Failed(),
	)
	return &e, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM applicant_evaluations WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("evaluation deleted", "id", id)
	return nil
}
