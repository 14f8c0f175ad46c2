// Package config holds the immutable parameter set for the recognition engine.
package config

import (
	"fmt"
	"time"

	"github.com/workshopkit/wrench/internal/common"
)

// Config controls every numeric threshold and weight used by the matcher,
// scorer, and rule cache. It is validated once at construction and never
// mutated mid-analysis.
type Config struct {
	ConfidenceThreshold   float64
	ExactWeightBase       float64
	SynonymWeightBase     float64
	FuzzyWeightBase       float64
	FuzzyThreshold        float64
	ContextBonus          float64
	MaxResultsPerCategory int
	CacheTTL              time.Duration
	DebugMode             bool
}

// Default returns the engine's default configuration.
func Default() Config {
	return Config{
		ConfidenceThreshold:   50.0,
		ExactWeightBase:       100.0,
		SynonymWeightBase:     90.0,
		FuzzyWeightBase:       85.0,
		FuzzyThreshold:        0.8,
		ContextBonus:          10.0,
		MaxResultsPerCategory: 10,
		CacheTTL:              15 * time.Minute,
	}
}

// Validate checks every numeric field, failing fast at startup.
func (c Config) Validate() error {
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 100 {
		return fmt.Errorf("%w: confidence_threshold %.2f not in [0,100]", common.ErrInvalidConfig, c.ConfidenceThreshold)
	}
	if c.ExactWeightBase <= 0 {
		return fmt.Errorf("%w: exact_weight_base %.2f must be positive", common.ErrInvalidConfig, c.ExactWeightBase)
	}
	if c.SynonymWeightBase <= 0 {
		return fmt.Errorf("%w: synonym_weight_base %.2f must be positive", common.ErrInvalidConfig, c.SynonymWeightBase)
	}
	if c.FuzzyWeightBase <= 0 {
		return fmt.Errorf("%w: fuzzy_weight_base %.2f must be positive", common.ErrInvalidConfig, c.FuzzyWeightBase)
	}
	if c.FuzzyThreshold < 0 || c.FuzzyThreshold > 1 {
		return fmt.Errorf("%w: fuzzy_threshold %.2f not in [0,1]", common.ErrInvalidConfig, c.FuzzyThreshold)
	}
	if c.ContextBonus < 0 {
		return fmt.Errorf("%w: context_bonus %.2f must not be negative", common.ErrInvalidConfig, c.ContextBonus)
	}
	if c.MaxResultsPerCategory < 1 {
		return fmt.Errorf("%w: max_results_per_category %d must be at least 1", common.ErrInvalidConfig, c.MaxResultsPerCategory)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("%w: cache_ttl %s must be positive", common.ErrInvalidConfig, c.CacheTTL)
	}
	return nil
}
