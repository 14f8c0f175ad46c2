// Package match finds exact, synonym, and approximate keyword hits in
// normalized maintenance text.
package match

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/workshopkit/wrench/internal/model"
)

// Matcher evaluates a rule set's keywords against normalized text.
type Matcher struct {
	fuzzyThreshold float64
}

// NewMatcher creates a matcher with the given fuzzy similarity threshold.
func NewMatcher(fuzzyThreshold float64) *Matcher {
	return &Matcher{fuzzyThreshold: fuzzyThreshold}
}

// FindHits returns at most one hit per keyword, trying strategies in order:
// exact literal substring, synonym substring, fuzzy similarity. Both sides
// are already normalized, so matching is case- and accent-insensitive.
func (m *Matcher) FindHits(normalized string, rs *model.RuleSet) []model.MatchHit {
	if normalized == "" || rs == nil {
		return nil
	}

	words := strings.Fields(normalized)

	var hits []model.MatchHit
	for _, kw := range rs.Keywords {
		if !kw.IsActive {
			continue
		}

		if hit, ok := m.matchKeyword(normalized, words, kw); ok {
			hits = append(hits, hit)
		}
	}

	return hits
}

func (m *Matcher) matchKeyword(normalized string, words []string, kw model.Keyword) (model.MatchHit, bool) {
	if kw.Literal != "" && strings.Contains(normalized, kw.Literal) {
		return model.MatchHit{
			KeywordID:   kw.ID,
			CategoryID:  kw.CategoryID,
			Kind:        model.MatchExact,
			MatchedText: kw.Literal,
			Similarity:  1.0,
		}, true
	}

	for _, syn := range kw.Synonyms {
		if syn != "" && strings.Contains(normalized, syn) {
			return model.MatchHit{
				KeywordID:   kw.ID,
				CategoryID:  kw.CategoryID,
				Kind:        model.MatchSynonym,
				MatchedText: syn,
				Similarity:  1.0,
			}, true
		}
	}

	bestRatio := 0.0
	bestWindow := ""
	for _, term := range append([]string{kw.Literal}, kw.Synonyms...) {
		if term == "" {
			continue
		}
		ratio, window := bestWindowRatio(words, term)
		if ratio > bestRatio {
			bestRatio = ratio
			bestWindow = window
		}
	}

	if bestRatio >= m.fuzzyThreshold {
		return model.MatchHit{
			KeywordID:   kw.ID,
			CategoryID:  kw.CategoryID,
			Kind:        model.MatchFuzzy,
			MatchedText: bestWindow,
			Similarity:  bestRatio,
		}, true
	}

	return model.MatchHit{}, false
}

// bestWindowRatio slides word windows of the same word count as the term
// across the text and returns the best edit-similarity ratio in [0,1].
func bestWindowRatio(words []string, term string) (float64, string) {
	termWords := len(strings.Fields(term))
	if termWords == 0 || len(words) < termWords {
		return 0, ""
	}

	best := 0.0
	bestWindow := ""
	for i := 0; i+termWords <= len(words); i++ {
		window := strings.Join(words[i:i+termWords], " ")
		if ratio := similarity(window, term); ratio > best {
			best = ratio
			bestWindow = window
		}
	}
	return best, bestWindow
}

// similarity converts levenshtein distance into a ratio in [0,1].
func similarity(a, b string) float64 {
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}
