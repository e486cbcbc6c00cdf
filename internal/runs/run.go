// Package runs implements the assessment run domain. A run groups the
// applicants assessed together under one rule set, carries optional
// user-defined requirements and per-dimension model overrides, and tracks
// pipeline progress through its status.
package runs

import (
	"time"

	"github.com/google/uuid"
)

// Run lifecycle statuses.
const (
	StatusCreated    = "created"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Run represents one assessment run. It mirrors the assessment_runs table
// schema. AgentModels maps dimension names to per-run model overrides.
type Run struct {
	ID                 uuid.UUID         `json:"id"`
	Name               *string           `json:"name"`
	RuleSetID          *uuid.UUID        `json:"rule_set_id"`
	CustomRequirements []string          `json:"custom_requirements"`
	AgentModels        map[string]string `json:"agent_models"`
	Status             string            `json:"status"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// CreateCommand carries the data needed to open a run.
type CreateCommand struct {
	Name               *string           `json:"name"`
	RuleSetID          *uuid.UUID        `json:"rule_set_id"`
	CustomRequirements []string          `json:"custom_requirements"`
	AgentModels        map[string]string `json:"agent_models"`
}
