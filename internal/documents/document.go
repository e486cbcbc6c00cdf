// Package documents implements the applicant document domain. Documents are
// stored with their extracted text so evaluators can list, read, and search
// them without touching the original files.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document represents one stored applicant document. It mirrors the
// applicant_documents table schema.
type Document struct {
	ID               uuid.UUID `json:"id"`
	ApplicantID      uuid.UUID `json:"applicant_id"`
	RelPath          string    `json:"rel_path"`
	OriginalFilename string    `json:"original_filename"`
	ContentType      *string   `json:"content_type"`
	SizeBytes        *int64    `json:"size_bytes"`
	Text             string    `json:"text"`
	DocType          *string   `json:"doc_type"`
	CreatedAt        time.Time `json:"created_at"`
}

// CreateCommand carries the data needed to store a document.
type CreateCommand struct {
	ApplicantID      uuid.UUID `json:"applicant_id"`
	RelPath          string    `json:"rel_path"`
	OriginalFilename string    `json:"original_filename"`
	ContentType      *string   `json:"content_type"`
	SizeBytes        *int64    `json:"size_bytes"`
	Text             string    `json:"text"`
	DocType          *string   `json:"doc_type"`
}

/// Match is one search hit: the surrounding context of a keyword occurrence
// within a document's text.
type Match struct {
	DocumentID uuid.UUID `json:"document_id"`
	Filename   string    `json:"filename"`
	DocType    *string   `json:"doc_type"`
	Context    string    `json:"context"`
	Position   int       `json:"position"`
}
