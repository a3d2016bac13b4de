// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile matches free-text citations against catalog records and
// scores the candidates. It contains the text normalizer, the similarity
// metrics, the candidate filter, and the query/batch processing engine.
package reconcile

import "strings"

// punctuation is the ASCII punctuation set replaced by spaces. Catalog
// titles use ASCII punctuation almost exclusively, so the set is kept
// narrow rather than widened to full Unicode punctuation classes.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// markupReplacer strips markup artifacts that leak from catalog metadata.
var markupReplacer = strings.NewReplacer(
	"<i>", " ",
	"</i>", " ",
	"<sup>", " ",
	"</sup>", " ",
	"&amp;quot;", " ",
	"'", " ",
)

// Normalize canonicalizes text for comparison: punctuation becomes spaces,
// the result is lowercased, markup artifacts are removed, runs of spaces
// collapse to one, and surrounding whitespace is trimmed. It must be
// applied to both sides of every comparison.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r < 128 && strings.ContainsRune(punctuation, r) {
			b.WriteByte(' ')
		} else {
			b.WriteRune(r)
		}
	}

	s := strings.ToLower(b.String())
	s = markupReplacer.Replace(s)
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return strings.TrimSpace(s)
}
