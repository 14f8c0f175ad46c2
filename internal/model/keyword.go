package model

// Keyword is a canonical phrase associated with a category, optionally
// carrying synonyms and a confidence weight.
//
// Literal and Synonyms are stored in the administrator's original spelling;
// the rule repository normalizes them when it builds a RuleSet snapshot so
// that matching is case- and accent-insensitive.
type Keyword struct {
	Literal    string   `json:"literal"`
	Synonyms   []string `json:"synonyms,omitempty"`
	ID         int64    `json:"id"`
	CategoryID int64    `json:"category_id"`
	Weight     float64  `json:"weight"`
	IsActive   bool     `json:"is_active"`
}
