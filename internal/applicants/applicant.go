// Package applicants implements the applicant domain: the people under
// assessment, grouped by run, each carrying a folder of uploaded documents.
package applicants

import (
	"time"

	"github.com/google/uuid"
)

// Applicant represents one person under assessment. It mirrors the
// applicants table schema.
type Applicant struct {
	ID          uuid.UUID `json:"id"`
	RunID       uuid.UUID `json:"run_id"`
	DisplayName *string   `json:"display_name"`
	Email       *string   `json:"email"`
	FolderName  string    `json:"folder_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateCommand carries the data needed to register an applicant on a run.
type CreateCommand struct {
	RunID       uuid.UUID `json:"run_id"`
	DisplayName *string   `json:"display_name"`
	Email       *string   `json:"email"`
	FolderName  string    `json:"folder_name"`
}
