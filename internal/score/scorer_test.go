package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workshopkit/wrench/internal/config"
	"github.com/workshopkit/wrench/internal/model"
	"github.com/workshopkit/wrench/internal/testutil"
)

func filtersRuleSet(t *testing.T) *model.RuleSet {
	t.Helper()
	return testutil.NewRuleSetBuilder(t, model.DimensionParts).
		WithCategory("Filters", "#007bff").
		WithKeyword("filter", 1.0, "strainer").
		WithKeyword("oil filter", 1.0).
		Build()
}

func TestScoreExactHit(t *testing.T) {
	rs := filtersRuleSet(t)
	s := NewScorer(config.Default())

	// Exact hit on weight 1.0: 100 * 1.0 = 100.
	scores := s.Score([]model.MatchHit{
		{KeywordID: 1, CategoryID: 1, Kind: model.MatchExact, MatchedText: "filter", Similarity: 1.0},
	}, rs)

	require.Len(t, scores, 1)
	assert.Equal(t, int64(1), scores[0].CategoryID)
	assert.Equal(t, 100.0, scores[0].Confidence)
	assert.Equal(t, []string{"filter"}, scores[0].MatchedTexts)
	assert.Equal(t, 1, scores[0].KeywordCount)
}

func TestScoreSynonymHit(t *testing.T) {
	rs := filtersRuleSet(t)
	s := NewScorer(config.Default())

	scores := s.Score([]model.MatchHit{
		{KeywordID: 1, CategoryID: 1, Kind: model.MatchSynonym, MatchedText: "strainer", Similarity: 1.0},
	}, rs)

	require.Len(t, scores, 1)
	assert.Equal(t, 90.0, scores[0].Confidence)
}

func TestScoreFuzzyHit(t *testing.T) {
	rs := filtersRuleSet(t)
	s := NewScorer(config.Default())

	// 0.83 * 85 * 1.0 = 70.55.
	scores := s.Score([]model.MatchHit{
		{KeywordID: 1, CategoryID: 1, Kind: model.MatchFuzzy, MatchedText: "flter", Similarity: 0.83},
	}, rs)

	require.Len(t, scores, 1)
	assert.InDelta(t, 70.55, scores[0].Confidence, 0.001)
}

func TestScoreContextBonus(t *testing.T) {
	rs := filtersRuleSet(t)
	s := NewScorer(config.Default())

	// Two distinct keywords each scoring 90: mean(90,90) + 10 = 100.
	scores := s.Score([]model.MatchHit{
		{KeywordID: 1, CategoryID: 1, Kind: model.MatchSynonym, MatchedText: "strainer", Similarity: 1.0},
		{KeywordID: 2, CategoryID: 1, Kind: model.MatchSynonym, MatchedText: "oil strainer", Similarity: 1.0},
	}, rs)

	require.Len(t, scores, 1)
	assert.Equal(t, 100.0, scores[0].Confidence)
	assert.Equal(t, 2, scores[0].KeywordCount)
}

func TestScoreClampAt100(t *testing.T) {
	rs := filtersRuleSet(t)
	s := NewScorer(config.Default())

	// Two exact hits: mean(100,100) + 10 = 110, clamped to 100.
	scores := s.Score([]model.MatchHit{
		{KeywordID: 1, CategoryID: 1, Kind: model.MatchExact, MatchedText: "filter", Similarity: 1.0},
		{KeywordID: 2, CategoryID: 1, Kind: model.MatchExact, MatchedText: "oil filter", Similarity: 1.0},
	}, rs)

	require.Len(t, scores, 1)
	assert.Equal(t, 100.0, scores[0].Confidence)
}

func TestScoreThresholdDropsWeakCategories(t *testing.T) {
	rs := filtersRuleSet(t)
	s := NewScorer(config.Default())

	// Weak fuzzy hit: 0.5 * 85 = 42.5 < 50, excluded.
	scores := s.Score([]model.MatchHit{
		{KeywordID: 1, CategoryID: 1, Kind: model.MatchFuzzy, MatchedText: "fl", Similarity: 0.5},
	}, rs)

	assert.Empty(t, scores)
}

func TestScoreDuplicateKeywordCountsOnce(t *testing.T) {
	rs := filtersRuleSet(t)
	s := NewScorer(config.Default())

	scores := s.Score([]model.MatchHit{
		{KeywordID: 1, CategoryID: 1, Kind: model.MatchExact, MatchedText: "filter", Similarity: 1.0},
		{KeywordID: 1, CategoryID: 1, Kind: model.MatchExact, MatchedText: "filter", Similarity: 1.0},
	}, rs)

	require.Len(t, scores, 1)
	// No context bonus: one distinct keyword.
	assert.Equal(t, 100.0, scores[0].Confidence)
	assert.Equal(t, 1, scores[0].KeywordCount)
}

func TestScoreKeywordWeightScalesComponents(t *testing.T) {
	rs := testutil.NewRuleSetBuilder(t, model.DimensionParts).
		WithCategory("Hydraulic Pumps", "#dc3545").
		WithKeyword("pump", 0.6).
		Build()
	s := NewScorer(config.Default())

	// 100 * 0.6 = 60.
	scores := s.Score([]model.MatchHit{
		{KeywordID: 1, CategoryID: 1, Kind: model.MatchExact, MatchedText: "pump", Similarity: 1.0},
	}, rs)

	require.Len(t, scores, 1)
	assert.InDelta(t, 60.0, scores[0].Confidence, 0.001)
}

func TestScoreMonotonicBonus(t *testing.T) {
	rs := filtersRuleSet(t)
	s := NewScorer(config.Default())

	base := s.Score([]model.MatchHit{
		{KeywordID: 1, CategoryID: 1, Kind: model.MatchSynonym, MatchedText: "strainer", Similarity: 1.0},
	}, rs)
	require.Len(t, base, 1)

	// Adding a comparable-strength distinct keyword must not lower the
	// category's confidence.
	extended := s.Score([]model.MatchHit{
		{KeywordID: 1, CategoryID: 1, Kind: model.MatchSynonym, MatchedText: "strainer", Similarity: 1.0},
		{KeywordID: 2, CategoryID: 1, Kind: model.MatchExact, MatchedText: "oil filter", Similarity: 1.0},
	}, rs)
	require.Len(t, extended, 1)

	assert.GreaterOrEqual(t, extended[0].Confidence, base[0].Confidence)
}

func TestScoreSortsAndTruncates(t *testing.T) {
	builder := testutil.NewRuleSetBuilder(t, model.DimensionParts)
	var hits []model.MatchHit
	for i := 1; i <= 12; i++ {
		builder = builder.WithCategory("Cat", "#000000").WithKeyword("kw", 1.0)
	}
	rs := builder.Build()
	for i := 1; i <= 12; i++ {
		kind := model.MatchExact
		if i%2 == 0 {
			kind = model.MatchSynonym
		}
		hits = append(hits, model.MatchHit{
			KeywordID:  int64(i),
			CategoryID: int64(i),
			Kind:       kind,
			Similarity: 1.0,
		})
	}

	cfg := config.Default()
	scores := NewScorer(cfg).Score(hits, rs)

	require.Len(t, scores, cfg.MaxResultsPerCategory)
	for i := 1; i < len(scores); i++ {
		assert.GreaterOrEqual(t, scores[i-1].Confidence, scores[i].Confidence)
	}
	// Exact (100) categories must precede synonym (90) categories.
	assert.Equal(t, 100.0, scores[0].Confidence)
}

func TestScoreConfidenceBounds(t *testing.T) {
	rs := filtersRuleSet(t)
	s := NewScorer(config.Default())

	hits := []model.MatchHit{
		{KeywordID: 1, CategoryID: 1, Kind: model.MatchExact, Similarity: 1.0},
		{KeywordID: 2, CategoryID: 1, Kind: model.MatchFuzzy, Similarity: 0.99},
	}

	for _, score := range s.Score(hits, rs) {
		assert.GreaterOrEqual(t, score.Confidence, 0.0)
		assert.LessOrEqual(t, score.Confidence, 100.0)
	}
}
