// Package engine orchestrates the recognition pipeline: normalize, match,
// and score maintenance descriptions across the parts and labor dimensions.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/workshopkit/wrench/internal/config"
	"github.com/workshopkit/wrench/internal/match"
	"github.com/workshopkit/wrench/internal/metrics"
	"github.com/workshopkit/wrench/internal/model"
	"github.com/workshopkit/wrench/internal/normalize"
	"github.com/workshopkit/wrench/internal/score"
)

// Engine runs the recognition pipeline. Analysis is pure CPU work over
// read-only snapshots and is safe to run in parallel across calls.
type Engine struct {
	rules   RuleSource
	matcher *match.Matcher
	scorer  *score.Scorer
	cfg     config.Config
	workers int
}

// BatchItem pairs one description with its optional source record id.
type BatchItem struct {
	SourceID    *int64
	Description string
}

// New creates an engine over the given rule source. The configuration is
// validated here so invalid parameters fail at startup, never mid-analysis.
func New(rules RuleSource, cfg config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine configuration: %w", err)
	}
	return &Engine{
		rules:   rules,
		matcher: match.NewMatcher(cfg.FuzzyThreshold),
		scorer:  score.NewScorer(cfg),
		cfg:     cfg,
		workers: runtime.NumCPU(),
	}, nil
}

// Analyze classifies one free-text maintenance description across both
// dimensions. Empty or whitespace-only input is not an error: it yields a
// result with empty detection lists and a nil overall confidence.
func (e *Engine) Analyze(ctx context.Context, description string, sourceID *int64) (*model.AnalysisResult, error) {
	partsRS, err := e.rules.Get(ctx, model.DimensionParts)
	if err != nil {
		return nil, err
	}
	laborRS, err := e.rules.Get(ctx, model.DimensionLabor)
	if err != nil {
		return nil, err
	}

	result := e.analyzeWith(description, sourceID, partsRS, laborRS)

	if e.cfg.DebugMode {
		slog.Debug("analysis complete",
			"parts", len(result.PartsDetected),
			"labor", len(result.LaborDetected),
			"total", result.TotalDetections,
			"duration_ms", result.ProcessingTimeMS)
	}

	return result, nil
}

// AnalyzeBatch classifies many descriptions, loading each dimension's rule
// set once and fanning work out over a bounded worker pool. The returned
// slice is positionally correspondent with the input.
func (e *Engine) AnalyzeBatch(ctx context.Context, items []BatchItem) ([]*model.AnalysisResult, error) {
	partsRS, err := e.rules.Get(ctx, model.DimensionParts)
	if err != nil {
		return nil, err
	}
	laborRS, err := e.rules.Get(ctx, model.DimensionLabor)
	if err != nil {
		return nil, err
	}

	results := make([]*model.AnalysisResult, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, item := range items {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = e.analyzeWith(item.Description, item.SourceID, partsRS, laborRS)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// analyzeWith is the shared single-description pipeline over two fixed
// snapshots. Normalization happens once; the dimensions share only the
// normalized text.
func (e *Engine) analyzeWith(description string, sourceID *int64, partsRS, laborRS *model.RuleSet) *model.AnalysisResult {
	start := time.Now()

	normalized := normalize.Normalize(description)

	parts := e.detect(normalized, partsRS)
	labor := e.detect(normalized, laborRS)

	result := &model.AnalysisResult{
		SourceID:          sourceID,
		PartsDetected:     parts,
		LaborDetected:     labor,
		TotalDetections:   len(parts) + len(labor),
		OverallConfidence: overallConfidence(parts, labor),
	}

	elapsed := time.Since(start)
	result.ProcessingTimeMS = float64(elapsed.Microseconds()) / 1000.0

	metrics.Analyses.Inc()
	metrics.AnalysisDuration.Observe(elapsed.Seconds())

	return result
}

func (e *Engine) detect(normalized string, rs *model.RuleSet) []model.CategoryDetection {
	if normalized == "" {
		return []model.CategoryDetection{}
	}

	hits := e.matcher.FindHits(normalized, rs)
	scores := e.scorer.Score(hits, rs)

	detections := make([]model.CategoryDetection, 0, len(scores))
	for _, s := range scores {
		cat, ok := rs.CategoryByID(s.CategoryID)
		if !ok {
			continue
		}
		detections = append(detections, model.CategoryDetection{
			CategoryID:   s.CategoryID,
			CategoryName: cat.Name,
			Color:        cat.Color,
			Confidence:   s.Confidence,
			MatchedTexts: s.MatchedTexts,
			KeywordIDs:   s.KeywordIDs,
		})
	}
	return detections
}

// overallConfidence is the mean of all surviving confidences across both
// dimensions, or nil when nothing survived the threshold.
func overallConfidence(parts, labor []model.CategoryDetection) *float64 {
	total := len(parts) + len(labor)
	if total == 0 {
		return nil
	}

	sum := 0.0
	for _, d := range parts {
		sum += d.Confidence
	}
	for _, d := range labor {
		sum += d.Confidence
	}

	mean := sum / float64(total)
	return &mean
}
