package address

// Similarity is the tiered outcome of comparing a declared civic number
// against a geocoded one.
type Similarity int

// Similarity tiers.
const (
	SimilarityNone Similarity = iota
	SimilarityExact
	SimilarityBaseMatch
	SimilarityAdjacent
	SimilarityDistant
)

func (s Similarity) String() string {
	switch s {
	case SimilarityExact:
		return "EXACT"
	case SimilarityBaseMatch:
		return "BASE_MATCH"
	case SimilarityAdjacent:
		return "ADJACENT"
	case SimilarityDistant:
		return "DISTANT"
	}
	return "NONE"
}

// Compare scores a declared number against a geocoded one.
// When either side has no number there is nothing to compare: the result is
// SimilarityNone, never a penalty tier. Suffix comparison is case-insensitive
// and ignores separators ("/A" equals "A").
func Compare(declared, geocoded StreetNumber) Similarity {
	if !declared.Found || !geocoded.Found {
		return SimilarityNone
	}

	if declared.Base == geocoded.Base {
		if NormalizeSuffix(declared.Suffix) == NormalizeSuffix(geocoded.Suffix) {
			return SimilarityExact
		}
		return SimilarityBaseMatch
	}

	diff := declared.Base - geocoded.Base
	if diff < 0 {
		diff = -diff
	}
	if diff <= 2 {
		return SimilarityAdjacent
	}

	return SimilarityDistant
}
