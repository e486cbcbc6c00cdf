package config_test

import (
	"testing"
	"time"

	"github.com/JaimeStill/cohort/internal/config"
)

func TestPipelineConfigDefaults(t *testing.T) {
	var cfg config.PipelineConfig
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	if cfg.PollInterval != "10s" {
		t.Errorf("PollInterval = %q, want 10s", cfg.PollInterval)
	}
	if cfg.EvaluationTimeout != "120s" {
		t.Errorf("EvaluationTimeout = %q, want 120s", cfg.EvaluationTimeout)
	}
	if cfg.PairwisePasses != 1 {
		t.Errorf("PairwisePasses = %d, want 1", cfg.PairwisePasses)
	}
	if cfg.PairwiseEpsilon != 0.3 {
		t.Errorf("PairwiseEpsilon = %v, want 0.3", cfg.PairwiseEpsilon)
	}
	if cfg.PollIntervalDuration() != 10*time.Second {
		t.Errorf("PollIntervalDuration() = %v, want 10s", cfg.PollIntervalDuration())
	}
}

func TestPipelineConfigEnvOverrides(t *testing.T) {
	t.Setenv(config.EnvPipelinePollInterval, "1m")
	t.Setenv(config.EnvPipelineEvaluationTimeout, "5m")
	t.Setenv(config.EnvPipelinePairwisePasses, "3")
	t.Setenv(config.EnvPipelinePairwiseEpsilon, "0.5")

	var cfg config.PipelineConfig
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	if cfg.PollIntervalDuration() != time.Minute {
		t.Errorf("PollIntervalDuration() = %v, want 1m", cfg.PollIntervalDuration())
	}
	if cfg.EvaluationTimeoutDuration() != 5*time.Minute {
		t.Errorf("EvaluationTimeoutDuration() = %v, want 5m", cfg.EvaluationTimeoutDuration())
	}
	if cfg.PairwisePasses != 3 {
		t.Errorf("PairwisePasses = %d, want 3", cfg.PairwisePasses)
	}
	if cfg.PairwiseEpsilon != 0.5 {
		t.Errorf("PairwiseEpsilon = %v, want 0.5", cfg.PairwiseEpsilon)
	}
}

func TestPipelineConfigMerge(t *testing.T) {
	cfg := config.PipelineConfig{
		PollInterval:      "10s",
		EvaluationTimeout: "120s",
		PairwisePasses:    1,
		PairwiseEpsilon:   0.3,
	}

	cfg.Merge(&config.PipelineConfig{
		PollInterval:   "30s",
		PairwisePasses: 2,
	})

	if cfg.PollInterval != "30s" {
		t.Errorf("PollInterval = %q, want overlay value", cfg.PollInterval)
	}
	if cfg.EvaluationTimeout != "120s" {
		t.Errorf("EvaluationTimeout = %q, want base value preserved", cfg.EvaluationTimeout)
	}
	if cfg.PairwisePasses != 2 {
		t.Errorf("PairwisePasses = %d, want overlay value", cfg.PairwisePasses)
	}
	if cfg.PairwiseEpsilon != 0.3 {
		t.Errorf("PairwiseEpsilon = %v, want base value preserved", cfg.PairwiseEpsilon)
	}
}

func TestPipelineConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.PipelineConfig
	}{
		{"bad poll interval", config.PipelineConfig{PollInterval: "often"}},
		{"bad evaluation timeout", config.PipelineConfig{EvaluationTimeout: "later"}},
		{"negative passes", config.PipelineConfig{PairwisePasses: -1}},
		{"negative epsilon", config.PipelineConfig{PairwiseEpsilon: -0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(); err == nil {
				t.Error("Finalize() error = nil, want validation failure")
			}
		})
	}
}
