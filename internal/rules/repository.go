package rules

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/internal/evaluations"
	"github.com/JaimeStill/cohort/pkg/pagination"
	"github.com/JaimeStill/cohort/pkg/query"
	"github.com/JaimeStill/cohort/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a rule set repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "rules"),
		pagination: pagination,
	}
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[RuleSet], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count rule sets: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRuleSet)
	if err != nil {
		return nil, fmt.Errorf("query rule sets: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*RuleSet, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	rs, err := repository.QueryOne(ctx, r.db, q, args, scanRuleSet)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rs, nil
}

func (r *repo) FindByName(ctx context.Context, name string) (*RuleSet, error) {
	q, args := query.NewBuilder(projection).BuildSingle("Name", name)

	rs, err := repository.QueryOne(ctx, r.db, q, args, scanRuleSet)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rs, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*RuleSet, error) {
	degreeClass := cmd.DegreeClass
	if degreeClass == "" {
		degreeClass = DefaultDegreeClass
	}

	checklists := cmd.Checklists
	if checklists == nil {
		checklists = map[evaluations.Dimension][]string{}
	}
	checklistsJSON, err := json.Marshal(checklists)
	if err != nil {
		return nil, fmt.Errorf("marshal checklists: %w", err)
	}

	var policyJSON []byte
	if cmd.EnglishPolicy != nil {
		policyJSON, err = json.Marshal(cmd.EnglishPolicy)
		if err != nil {
			return nil, fmt.Errorf("marshal english_policy: %w", err)
		}
	}

	insertQ := `
		INSERT INTO admission_rule_sets(
			name, description, degree_class, english_level, checklists, english_policy
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, description, degree_class, english_level,
				  checklists, english_policy, created_at`

	rs, err := repository.QueryOne(ctx, r.db, insertQ,
		[]any{cmd.Name, cmd.Description, degreeClass, cmd.EnglishLevel, checklistsJSON, policyJSON},
		scanRuleSet,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("rule set created",
		"id", rs.ID,
		"name", rs.Name,
		"degree_class", rs.DegreeClass,
	)
	return &rs, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM admission_rule_sets WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("rule set deleted", "id", id)
	return nil
}
