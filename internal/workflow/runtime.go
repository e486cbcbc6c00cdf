package workflow

import (
	"log/slog"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/cohort/internal/applicants"
	"github.com/JaimeStill/cohort/internal/documents"
	"github.com/JaimeStill/cohort/internal/evaluations"
	"github.com/JaimeStill/cohort/internal/evaluators"
	"github.com/JaimeStill/cohort/internal/gating"
	"github.com/JaimeStill/cohort/internal/ranking"
	"github.com/JaimeStill/cohort/internal/rules"
	"github.com/JaimeStill/cohort/internal/runs"
)

// Settings carries the tunable pipeline parameters.
type Settings struct {
	// EvaluationTimeout bounds the concurrent dimension fan-out for one
	// applicant. A dimension that misses the deadline records a failed
	// evaluation rather than aborting the run.
	EvaluationTimeout time.Duration

	// PairwisePasses is the number of adjacent-pair refinement sweeps.
	PairwisePasses int

	// PairwiseEpsilon is the weighted-score gap under which two neighbors
	// go head-to-head.
	PairwiseEpsilon float64
}

// Runtime bundles the dependencies that workflow nodes require.
// It is constructed by higher-level composition code from Infrastructure
// and Domain systems.
type Runtime struct {
	Agent       gaconfig.AgentConfig
	Runs        runs.System
	Rules       rules.System
	Applicants  applicants.System
	Documents   documents.System
	Evaluations evaluations.System
	Gating      gating.System
	Rankings    ranking.System
	Evaluators  *evaluators.Evaluators
	Comparator  ranking.Comparator
	Settings    Settings
	Logger      *slog.Logger
}
