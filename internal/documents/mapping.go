package documents

import (
	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/pkg/query"
	"github.com/JaimeStill/cohort/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "applicant_documents", "d").
	Project("id", "ID").
	Project("applicant_id", "ApplicantID").
	Project("rel_path", "RelPath").
	Project("original_filename", "OriginalFilename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("text_content", "Text").
	Project("doc_type", "DocType").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field: "CreatedAt",
}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	ApplicantID *uuid.UUID `json:"applicant_id,omitempty"`
	DocType     *string    `json:"doc_type,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ApplicantID", f.ApplicantID).
		WhereEquals("DocType", f.DocType)
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document

	err := s.Scan(
		&d.ID,
		&d.ApplicantID,
		&d.RelPath,
		&d.OriginalFilename,
		&d.ContentType,
		&d.SizeBytes,
		&d.Text,
		&d.DocType,
		&d.CreatedAt,
	)

	return d, err
}
