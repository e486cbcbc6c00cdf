package runs

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

// New creates a run repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "runs"),
		pagination: pagination,
	}
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Run], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Status")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRun)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Run, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	run, err := repository.QueryOne(ctx, r.db, q, args, scanRun)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &run, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Run, error) {
	requirements := cmd.CustomRequirements
	if requirements == nil {
		requirements = []string{}
	}
	requirementsJSON, err := json.Marshal(requirements)
	if err != nil {
		return nil, fmt.Errorf("marshal custom_requirements: %w", err)
	}

	models := cmd.AgentModels
	if models == nil {
		models = map[string]string{}
	}
	modelsJSON, err := json.Marshal(models)
	if err != nil {
		return nil, fmt.Errorf("marshal agent_models: %w", err)
	}

	insertQ := `
		INSERT INTO assessment_runs(name, rule_set_id, custom_requirements, agent_models, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, rule_set_id, custom_requirements, agent_models,
				  status, created_at, updated_at`

	run, err := repository.QueryOne(ctx, r.db, insertQ,
		[]any{cmd.Name, cmd.RuleSetID, requirementsJSON, modelsJSON, StatusCreated},
		scanRun,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("run created",
		"id", run.ID,
		"name", run.Name,
		"rule_set_id", run.RuleSetID,
	)
	return &run, nil
}

func (r *repo) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	switch status {
	case StatusCreated, StatusProcessing, StatusCompleted, StatusFailed:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE assessment_runs SET status = $1, updated_at = NOW() WHERE id = $2",
			status, id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("run status updated", "id", id, "status", status)
	return nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM assessment_runs WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("run deleted", "id", id)
	return nil
}
