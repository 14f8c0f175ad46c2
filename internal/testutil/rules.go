package testutil

import (
	"testing"
	"time"

	"github.com/workshopkit/wrench/internal/model"
	"github.com/workshopkit/wrench/internal/normalize"
)

// RuleSetBuilder assembles RuleSet fixtures without a database. Literals and
// synonyms are normalized the way the rule repository would.
type RuleSetBuilder struct {
	t          *testing.T
	dimension  model.Dimension
	categories []model.Category
	keywords   []model.Keyword
	nextCatID  int64
	nextKwID   int64
	lastCatID  int64
}

// NewRuleSetBuilder creates a builder for one dimension.
func NewRuleSetBuilder(t *testing.T, dim model.Dimension) *RuleSetBuilder {
	t.Helper()
	return &RuleSetBuilder{
		t:         t,
		dimension: dim,
		nextCatID: 1,
		nextKwID:  1,
	}
}

// WithCategory adds an active category; subsequent WithKeyword calls attach
// to it.
func (b *RuleSetBuilder) WithCategory(name, color string) *RuleSetBuilder {
	b.t.Helper()
	cat := model.Category{
		ID:        b.nextCatID,
		Dimension: b.dimension,
		Name:      name,
		Color:     color,
		IsActive:  true,
	}
	b.nextCatID++
	b.lastCatID = cat.ID
	b.categories = append(b.categories, cat)
	return b
}

// WithKeyword attaches a keyword to the most recently added category.
func (b *RuleSetBuilder) WithKeyword(literal string, weight float64, synonyms ...string) *RuleSetBuilder {
	b.t.Helper()
	if b.lastCatID == 0 {
		b.t.Fatal("WithKeyword called before WithCategory")
	}

	normalized := make([]string, 0, len(synonyms))
	for _, syn := range synonyms {
		normalized = append(normalized, normalize.Normalize(syn))
	}

	b.keywords = append(b.keywords, model.Keyword{
		ID:         b.nextKwID,
		CategoryID: b.lastCatID,
		Literal:    normalize.Normalize(literal),
		Synonyms:   normalized,
		Weight:     weight,
		IsActive:   true,
	})
	b.nextKwID++
	return b
}

// Build publishes the snapshot.
func (b *RuleSetBuilder) Build() *model.RuleSet {
	b.t.Helper()
	return model.NewRuleSet(b.dimension, b.categories, b.keywords, time.Now())
}
