package applicants

import (
	"github.com/google/uuid"

	"github.com/JaimeStill/cohort/pkg/query"
	"github.com/JaimeStill/cohort/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "applicants", "a").
	Project("id", "ID").
	Project("run_id", "RunID").
	Project("display_name", "DisplayName").
	Project("email", "Email").
	Project("folder_name", "FolderName").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field: "CreatedAt",
}

// Filters contains optional filtering criteria for applicant queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	RunID *uuid.UUID `json:"run_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.WhereEquals("RunID", f.RunID)
}

func scanApplicant(s repository.Scanner) (Applicant, error) {
	var a Applicant

	err := s.Scan(
		&a.ID,
		&a.RunID,
		&a.DisplayName,
		&a.Email,
		&a.FolderName,
		&a.CreatedAt,
	)

	return a, err
}
