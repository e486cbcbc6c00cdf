package eligibility

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// fuzzyFloor is the minimum similarity ratio accepted when no exact alias
// match exists.
const fuzzyFloor = 0.8

// fuzzyPenalty scales the confidence of a fuzzy match so it can never exceed
// the confidence of an exact match.
const fuzzyPenalty = 0.8

// similarity returns a normalized string-similarity ratio in [0,1] using the
// Ratcliff/Obershelp algorithm, matching the resolution behavior the
// reference tables were calibrated against.
func similarity(a, b string) float64 {
	return strutil.Similarity(a, b, metrics.NewRatcliffObershelp())
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// bestFuzzyMatch scans candidates for the highest-similarity match at or
// above the fuzzy floor. Returns the matched candidate key and its raw
// similarity, or ("", 0) when nothing qualifies.
func bestFuzzyMatch(name string, candidates []string) (string, float64) {
	var (
		best      string
		bestScore float64
	)

	for _, candidate := range candidates {
		score := similarity(name, candidate)
		if score >= fuzzyFloor && score > bestScore {
			best = candidate
			bestScore = score
		}
	}

	return best, bestScore
}
