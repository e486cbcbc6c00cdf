package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvPipelinePollInterval      = "COHORT_PIPELINE_POLL_INTERVAL"
	EnvPipelineEvaluationTimeout = "COHORT_PIPELINE_EVALUATION_TIMEOUT"
	EnvPipelinePairwisePasses    = "COHORT_PIPELINE_PAIRWISE_PASSES"
	EnvPipelinePairwiseEpsilon   = "COHORT_PIPELINE_PAIRWISE_EPSILON"
)

// PipelineConfig holds assessment pipeline parameters.
type PipelineConfig struct {
	PollInterval      string  `toml:"poll_interval"`
	EvaluationTimeout string  `toml:"evaluation_timeout"`
	PairwisePasses    int     `toml:"pairwise_passes"`
	PairwiseEpsilon   float64 `toml:"pairwise_epsilon"`
}

// PollIntervalDuration returns PollInterval as a time.Duration.
func (c *PipelineConfig) PollIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.PollInterval)
	return d
}

// EvaluationTimeoutDuration returns EvaluationTimeout as a time.Duration.
func (c *PipelineConfig) EvaluationTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.EvaluationTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.PollInterval != "" {
		c.PollInterval = overlay.PollInterval
	}
	if overlay.EvaluationTimeout != "" {
		c.EvaluationTimeout = overlay.EvaluationTimeout
	}
	if overlay.PairwisePasses != 0 {
		c.PairwisePasses = overlay.PairwisePasses
	}
	if overlay.PairwiseEpsilon != 0 {
		c.PairwiseEpsilon = overlay.PairwiseEpsilon
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.PollInterval == "" {
		c.PollInterval = "10s"
	}
	if c.EvaluationTimeout == "" {
		c.EvaluationTimeout = "120s"
	}
	if c.PairwisePasses == 0 {
		c.PairwisePasses = 1
	}
	if c.PairwiseEpsilon == 0 {
		c.PairwiseEpsilon = 0.3
	}
}

func (c *PipelineConfig) loadEnv() {
	if v := os.Getenv(EnvPipelinePollInterval); v != "" {
		c.PollInterval = v
	}
	if v := os.Getenv(EnvPipelineEvaluationTimeout); v != "" {
		c.EvaluationTimeout = v
	}
	if v := os.Getenv(EnvPipelinePairwisePasses); v != "" {
		if passes, err := strconv.Atoi(v); err == nil {
			c.PairwisePasses = passes
		}
	}
	if v := os.Getenv(EnvPipelinePairwiseEpsilon); v != "" {
		if eps, err := strconv.ParseFloat(v, 64); err == nil {
			c.PairwiseEpsilon = eps
		}
	}
}

func (c *PipelineConfig) validate() error {
	if _, err := time.ParseDuration(c.PollInterval); err != nil {
		return fmt.Errorf("invalid poll_interval: %w", err)
	}
	if _, err := time.ParseDuration(c.EvaluationTimeout); err != nil {
		return fmt.Errorf("invalid evaluation_timeout: %w", err)
	}
	if c.PairwisePasses < 0 {
		return fmt.Errorf("pairwise_passes cannot be negative: %d", c.PairwisePasses)
	}
	if c.PairwiseEpsilon < 0 {
		return fmt.Errorf("pairwise_epsilon cannot be negative: %f", c.PairwiseEpsilon)
	}
	return nil
}
