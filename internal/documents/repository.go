package documents

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/pkg/pagination"
	"github.com/JaimeStill/cohort/pkg/query"
	"github.com/JaimeStill/cohort/pkg/repository"
)

// matchContextRadius is the number of characters of surrounding text
// returned on each side of a search hit.
const matchContextRadius = 100

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a document repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
	}
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "OriginalFilename", "DocType")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]Document, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("ApplicantID", &applicantID).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query applicant documents: %w", err)
	}
	return items, nil
}

// Search performs a case-insensitive substring scan over an applicant's
// document text, returning each first occurrence with surrounding context.
func (r *repo) Search(ctx context.Context, applicantID uuid.UUID, term string, maxResults int) ([]Match, error) {
	docs, err := r.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(term)
	matches := []Match{}

	for _, d := range docs {
		idx := strings.Index(strings.ToLower(d.Text), needle)
		if idx < 0 {
			continue
		}

		start := max(0, idx-matchContextRadius)
		end := min(len(d.Text), idx+len(term)+matchContextRadius)

		matches = append(matches, Match{
			DocumentID: d.ID,
			Filename:   d.OriginalFilename,
			DocType:    d.DocType,
			Context:    d.Text[start:end],
			Position:   idx,
		})

		if maxResults > 0 && len(matches) >= maxResults {
			break
		}
	}

	return matches, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	insertQ := `
		INSERT INTO applicant_documents(
			applicant_id, rel_path, original_filename, content_type,
			size_bytes, text_content, doc_type
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, applicant_id, rel_path, original_filename, content_type,
				  size_bytes, text_content, doc_type, created_at`

	d, err := repository.QueryOne(ctx, r.db, insertQ,
		[]any{
			cmd.ApplicantID,
			cmd.RelPath,
			cmd.OriginalFilename,
			cmd.ContentType,
			cmd.SizeBytes,
			cmd.Text,
			cmd.DocType,
		},
		scanDocument,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document created",
		"id", d.ID,
		"applicant_id", d.ApplicantID,
		"filename", d.OriginalFilename,
	)
	return &d, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM applicant_documents WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document deleted", "id", id)
	return nil
}
