package model

// MatchKind describes how a keyword was found in normalized text.
type MatchKind string

const (
	// MatchExact means the keyword's literal occurred as a substring.
	MatchExact MatchKind = "exact"
	// MatchSynonym means one of the keyword's synonyms occurred as a substring.
	MatchSynonym MatchKind = "synonym"
	// MatchFuzzy means the keyword was found by approximate similarity.
	MatchFuzzy MatchKind = "fuzzy"
)

// MatchHit is an ephemeral record of one keyword found in one text.
// A keyword contributes at most one hit per matcher call.
type MatchHit struct {
	MatchedText string
	Kind        MatchKind
	KeywordID   int64
	CategoryID  int64
	Similarity  float64
}
