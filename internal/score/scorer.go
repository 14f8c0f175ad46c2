// Package score converts raw match hits into per-category confidence scores.
package score

import (
	"sort"

	"github.com/workshopkit/wrench/internal/config"
	"github.com/workshopkit/wrench/internal/model"
)

// Scorer aggregates match hits into confidence scores in [0,100].
type Scorer struct {
	cfg config.Config
}

// NewScorer creates a scorer using the given configuration's weights.
func NewScorer(cfg config.Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score groups hits by category and computes each category's confidence:
// the arithmetic mean of its distinct-keyword component scores, plus a
// context bonus when two or more distinct keywords matched, clamped to
// [0,100]. Categories below the confidence threshold are dropped; the rest
// are sorted by descending confidence and truncated to the configured
// maximum number of category results.
func (s *Scorer) Score(hits []model.MatchHit, rs *model.RuleSet) []model.CategoryScore {
	weights := make(map[int64]float64, len(rs.Keywords))
	for _, kw := range rs.Keywords {
		weights[kw.ID] = kw.Weight
	}

	type accum struct {
		seen    map[int64]bool
		texts   []string
		ids     []int64
		sum     float64
		samples int
	}

	byCategory := make(map[int64]*accum)
	var order []int64

	for _, hit := range hits {
		acc := byCategory[hit.CategoryID]
		if acc == nil {
			acc = &accum{seen: make(map[int64]bool)}
			byCategory[hit.CategoryID] = acc
			order = append(order, hit.CategoryID)
		}

		// A keyword matched twice in the same text counts once.
		if acc.seen[hit.KeywordID] {
			continue
		}
		acc.seen[hit.KeywordID] = true

		acc.sum += s.componentScore(hit, weights[hit.KeywordID])
		acc.samples++
		acc.ids = append(acc.ids, hit.KeywordID)
		if !containsText(acc.texts, hit.MatchedText) {
			acc.texts = append(acc.texts, hit.MatchedText)
		}
	}

	scores := make([]model.CategoryScore, 0, len(byCategory))
	for _, catID := range order {
		acc := byCategory[catID]
		confidence := acc.sum / float64(acc.samples)
		if acc.samples >= 2 {
			confidence += s.cfg.ContextBonus
		}
		confidence = clamp(confidence, 0, 100)

		if confidence < s.cfg.ConfidenceThreshold {
			continue
		}

		scores = append(scores, model.CategoryScore{
			CategoryID:   catID,
			Confidence:   confidence,
			MatchedTexts: acc.texts,
			KeywordIDs:   acc.ids,
			KeywordCount: acc.samples,
		})
	}

	// Descending confidence; category id breaks ties so repeated runs
	// return identical results.
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Confidence != scores[j].Confidence {
			return scores[i].Confidence > scores[j].Confidence
		}
		return scores[i].CategoryID < scores[j].CategoryID
	})

	if len(scores) > s.cfg.MaxResultsPerCategory {
		scores = scores[:s.cfg.MaxResultsPerCategory]
	}

	return scores
}

func (s *Scorer) componentScore(hit model.MatchHit, weight float64) float64 {
	switch hit.Kind {
	case model.MatchExact:
		return s.cfg.ExactWeightBase * weight
	case model.MatchSynonym:
		return s.cfg.SynonymWeightBase * weight
	case model.MatchFuzzy:
		return hit.Similarity * s.cfg.FuzzyWeightBase * weight
	default:
		return 0
	}
}

func containsText(texts []string, text string) bool {
	for _, t := range texts {
		if t == text {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
