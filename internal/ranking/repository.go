package ranking

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

// New creates a ranking repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "ranking"),
		pagination: pagination,
	}
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Ranking], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Notes")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count rankings: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRanking)
	if err != nil {
		return nil, fmt.Errorf("query rankings: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Ranking, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	rk, err := repository.QueryOne(ctx, r.db, q, args, scanRanking)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rk, nil
}

func (r *repo) FindByApplicant(ctx context.Context, applicantID uuid.UUID) (*Ranking, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ApplicantID", applicantID)

	rk, err := repository.QueryOne(ctx, r.db, q, args, scanRanking)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rk, nil
}

// Record upserts an initial standing. Notes reset on rerun so refinement
// annotations do not accumulate across assessments.
func (r *repo) Record(ctx context.Context, cmd RecordCommand) (*Ranking, error) {
	upsertQ := `
		INSERT INTO applicant_ranking(applicant_id, run_id, weighted_score, final_rank, notes)
		VALUES ($1, $2, $3, $4, '')
		ON CONFLICT (applicant_id) DO UPDATE SET
			run_id = EXCLUDED.run_id,
			weighted_score = EXCLUDED.weighted_score,
			final_rank = EXCLUDED.final_rank,
			notes = '',
			ranked_at = NOW()
		RETURNING id, applicant_id, run_id, weighted_score, final_rank, notes, ranked_at`

	rk, err := repository.QueryOne(ctx, r.db, upsertQ,
		[]any{cmd.ApplicantID, cmd.RunID, cmd.WeightedScore, cmd.FinalRank},
		scanRanking,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("ranking recorded",
		"id", rk.ID,
		"applicant_id", rk.ApplicantID,
		"weighted_score", rk.WeightedScore,
		"final_rank", rk.FinalRank,
	)
	return &rk, nil
}

func (r *repo) SetRank(ctx context.Context, applicantID uuid.UUID, rank int) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE applicant_ranking SET final_rank = $1, ranked_at = NOW() WHERE applicant_id = $2",
			rank, applicantID,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) AppendNote(ctx context.Context, applicantID uuid.UUID, note string) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE applicant_ranking SET notes = TRIM(notes || ' ' || $1) WHERE applicant_id = $2",
			note, applicantID,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM applicant_ranking WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("ranking deleted", "id", id)
	return nil
}

// ClearComparisons removes a run's comparison audit trail so reruns start
// from a clean slate.
func (r *repo) ClearComparisons(ctx context.Context, runID uuid.UUID) error {
	if _, err := r.db.ExecContext(
		ctx,
		"DELETE FROM pairwise_comparisons WHERE run_id = $1",
		runID,
	); err != nil {
		return fmt.Errorf("clear comparisons: %w", err)
	}
	return nil
}

func (r *repo) RecordComparison(ctx context.Context, cmd ComparisonCommand) (*Comparison, error) {
	insertQ := `
		INSERT INTO pairwise_comparisons(
			run_id, applicant_a_id, applicant_b_id, winner, reason, pass_index
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, run_id, applicant_a_id, applicant_b_id, winner, reason,
				  pass_index, compared_at`

	c, err := repository.QueryOne(ctx, r.db, insertQ,
		[]any{cmd.RunID, cmd.ApplicantAID, cmd.ApplicantBID, cmd.Winner, cmd.Reason, cmd.PassIndex},
		scanComparison,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) ListComparisons(ctx context.Context, runID uuid.UUID) ([]Comparison, error) {
	q, args := query.
		NewBuilder(comparisonProjection, comparisonSort).
		WhereEquals("RunID", &runID).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanComparison)
	if err != nil {
		return nil, fmt.Errorf("query comparisons: %w", err)
	}
	return items, nil
}
