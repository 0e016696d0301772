package diag

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxSuggestDistance caps how far a candidate may be from the misspelling.
// Anything beyond this reads as noise rather than help.
const maxSuggestDistance = 3

// Suggest returns the known name closest to got, or "" when nothing is
// close enough to be worth offering. Matching is case-insensitive.
func Suggest(got string, known []string) string {
	if got == "" || len(known) == 0 {
		return ""
	}

	folded := strings.ToLower(got)
	ranks := fuzzy.RankFindFold(got, known)

	best := ""
	bestDistance := maxSuggestDistance + 1
	for _, rank := range ranks {
		d := fuzzy.LevenshteinDistance(folded, strings.ToLower(rank.Target))
		if d < bestDistance {
			best = rank.Target
			bestDistance = d
		}
	}
	return best
}
