// Package anchor picks the right listing-page result for a book before its
// detail page is fetched. Every anchor is scored against the target and the
// single best one above the acceptance threshold wins.
package anchor

import (
	"github.com/PuerkitoBio/goquery"

	"bookscout/internal/similarity"
)

// DefaultThreshold is the hand-tuned acceptance score. It is configuration,
// not a domain law; callers may override it per site.
const DefaultThreshold = 0.6

// Target is what the caller is searching for.
type Target struct {
	Title   string
	Authors []string
}

// Hint is the short title/author pair extracted from one listing anchor.
type Hint struct {
	Title  string
	Author string
}

// Extract pulls a Hint out of one anchor element.
type Extract func(sel *goquery.Selection) Hint

// Matcher scores anchors. The zero value uses DefaultThreshold.
type Matcher struct {
	Threshold float64
}

// FindBest scores every anchor in the selection and returns the best one at
// or above the threshold, or nil when none clears it. The combined score is
// title similarity multiplied by author similarity: a perfect title with a
// wrong author fails, and a perfect author cannot rescue a zero title.
// Ties keep the first anchor in document order.
func (m Matcher) FindBest(target Target, anchors *goquery.Selection, extract Extract) *goquery.Selection {
	threshold := m.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}

	targetTitle := similarity.Normalize(target.Title)

	var best *goquery.Selection
	var bestScore float64
	anchors.Each(func(_ int, sel *goquery.Selection) {
		hint := extract(sel)

		authorScore := 1.0
		if len(target.Authors) > 0 {
			if similarity.Normalize(hint.Author) == "" {
				authorScore = 0
			} else {
				authorScore = similarity.AuthorSet(target.Authors, []string{hint.Author})
			}
		}

		score := similarity.Text(targetTitle, similarity.Normalize(hint.Title)) * authorScore
		if score < threshold {
			return
		}
		if best == nil || score > bestScore {
			best = sel
			bestScore = score
		}
	})
	return best
}
