// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"math"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Reusable metric instances. Both are stateless and safe to share across
// concurrent calls.
var (
	// levenshtein computes similarity as 1 - distance/longerLength.
	levenshtein = metrics.NewLevenshtein()

	// jaroWinkler rewards matching characters with a common-prefix bonus.
	// It is prefix-biased rather than symmetric, but the engine always
	// passes the query-derived surname first, so argument order is fixed.
	jaroWinkler = metrics.NewJaroWinkler()
)

// TitleScore converts the normalized edit distance between two titles into
// a similarity percentage: round(100 * (1 - distance)). Both titles are
// normalized before comparison. Two empty titles are identical (distance
// zero), and the guard keeps the metric's 0/0 normalization from producing
// NaN for that case.
func TitleScore(queryTitle, candidateTitle string) int {
	a, b := Normalize(queryTitle), Normalize(candidateTitle)
	if a == "" && b == "" {
		return 100
	}
	sim := strutil.Similarity(a, b, levenshtein)
	return int(math.Round(100 * sim))
}

// Score blends title and author similarity into a confidence score in
// [0,100]. When both surnames are non-empty after normalization the title
// contributes at most 70 and the author at most 30; titles are the primary
// discriminator and surnames are noisy (missing, transliterated, or
// ambiguous). With no author data on either side the title similarity is
// used at full scale rather than penalizing the score.
//
// The final value is truncated, not rounded, for score reproducibility.
func Score(queryTitle, candidateTitle, queryAuthor, candidateSurname string) int {
	titleScore := TitleScore(queryTitle, candidateTitle)

	qa := Normalize(queryAuthor)
	ca := Normalize(candidateSurname)
	if qa == "" || ca == "" {
		return titleScore
	}

	authorSim := strutil.Similarity(qa, ca, jaroWinkler)
	return int(0.7*float64(titleScore) + 30*authorSim)
}
