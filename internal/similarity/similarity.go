// Package similarity compares noisy scraped text. Text is a whitespace-
// stripped Sørensen-Dice bigram coefficient; AuthorSet layers author-name
// word ordering on top so "Lee Harper" and "harper lee" compare equal.
package similarity

import (
	"sort"
	"strings"
	"unicode"
)

// Text returns the bigram similarity of a and b in [0, 1]. It is symmetric.
// Whitespace is stripped before comparison. Two empty strings score 1; an
// empty string against anything else scores 0. Callers that must treat an
// empty target specially have to guard it themselves.
func Text(a, b string) float64 {
	a = stripSpace(a)
	b = stripSpace(b)
	if a == b {
		return 1
	}

	ra := []rune(a)
	rb := []rune(b)
	if len(ra) < 2 || len(rb) < 2 {
		return 0
	}

	bigrams := make(map[string]int, len(ra)-1)
	for i := 0; i < len(ra)-1; i++ {
		bigrams[string(ra[i:i+2])]++
	}

	var intersection int
	for i := 0; i < len(rb)-1; i++ {
		gram := string(rb[i : i+2])
		if bigrams[gram] > 0 {
			bigrams[gram]--
			intersection++
		}
	}

	return 2 * float64(intersection) / float64(len(ra)+len(rb)-2)
}

// AuthorSet returns the best pairwise Text score between two sets of author
// names, each name order-normalized first. Comparing author lists by their
// best matching pair tolerates reordered, partial and multi-vs-single author
// mismatches. Empty input on either side scores 0.
func AuthorSet(a, b []string) float64 {
	var best float64
	for _, ai := range a {
		na := OrderAuthorWords(ai)
		for _, bj := range b {
			if score := Text(na, OrderAuthorWords(bj)); score > best {
				best = score
			}
		}
	}
	return best
}

// OrderAuthorWords lower-cases an author name, sorts its words
// lexicographically and rejoins them with single spaces, so name order does
// not affect comparison.
func OrderAuthorWords(name string) string {
	words := strings.Fields(strings.ToLower(name))
	sort.Strings(words)
	return strings.Join(words, " ")
}

// Normalize collapses runs of whitespace into single spaces, trims the ends
// and lower-cases, matching how listing anchors are prepared for scoring.
func Normalize(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

func stripSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
