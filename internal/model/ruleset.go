package model

import "time"

// RuleSet is the immutable snapshot of active categories and keywords for
// one dimension. It is published atomically by the rule repository; readers
// never observe a partially updated set. Keyword literals and synonyms are
// already normalized.
type RuleSet struct {
	LoadedAt   time.Time
	categories map[int64]Category
	Dimension  Dimension
	Categories []Category
	Keywords   []Keyword
}

// NewRuleSet builds a snapshot from already-filtered active rows.
func NewRuleSet(dim Dimension, categories []Category, keywords []Keyword, loadedAt time.Time) *RuleSet {
	byID := make(map[int64]Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	return &RuleSet{
		Dimension:  dim,
		Categories: categories,
		Keywords:   keywords,
		LoadedAt:   loadedAt,
		categories: byID,
	}
}

// CategoryByID returns the category with the given id, if present.
func (rs *RuleSet) CategoryByID(id int64) (Category, bool) {
	c, ok := rs.categories[id]
	return c, ok
}

// Age reports how long ago this snapshot was loaded.
func (rs *RuleSet) Age(now time.Time) time.Duration {
	return now.Sub(rs.LoadedAt)
}
