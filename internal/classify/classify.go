// Package classify maps discovered paths to resource kinds and crawl
// priorities. The table decides how eager the spider is about each kind of
// page; priority 0 means observe-only.
package classify

import (
	"errors"
	"sort"
	"strings"

	"bookscout/internal/models"
)

// Hand-tuned crawl eagerness per resource kind. Values are configuration,
// not domain law; sites may override them.
var DefaultPriorities = map[models.ResourceKind]int{
	models.KindBook:          7,
	models.KindPagination:    PriorityPagination,
	models.KindBookReview:    3,
	models.KindBookAuthor:    2,
	models.KindBookPublisher: 2,
	models.KindURL:           0,
}

// Listing pages sit between reviews and books: a rel=next pagination link
// beats the sibling listing pages so the spider walks listings forward.
const (
	PriorityPagination = 5
	PriorityNextPage   = 6
)

// PathMatcher resolves a path to a resource kind.
type PathMatcher func(path string) models.ResourceKind

// Table classifies paths and assigns priorities.
type Table struct {
	matchPath  PathMatcher
	priorities map[models.ResourceKind]int
}

// NewTable builds a classifier. A nil matcher or empty priority table is a
// configuration error and must abort before any fetching begins.
func NewTable(matchPath PathMatcher, priorities map[models.ResourceKind]int) (*Table, error) {
	if matchPath == nil {
		return nil, errors.New("classify: nil path matcher")
	}
	if len(priorities) == 0 {
		return nil, errors.New("classify: empty priority table")
	}
	return &Table{matchPath: matchPath, priorities: priorities}, nil
}

// Classify returns the resource kind for path.
func (t *Table) Classify(path string) models.ResourceKind {
	return t.matchPath(path)
}

// Priority returns the crawl priority for path; unknown kinds score 0.
func (t *Table) Priority(path string) int {
	return t.priorities[t.matchPath(path)]
}

// Link classifies path into an enqueueable CrawlerLink.
func (t *Table) Link(path string) models.CrawlerLink {
	kind := t.matchPath(path)
	return models.CrawlerLink{
		Path:     path,
		Kind:     kind,
		Priority: t.priorities[kind],
	}
}

// PrefixMatcher builds a PathMatcher from a prefix -> kind table, picking the
// longest matching prefix. Paths matching nothing are KindURL.
func PrefixMatcher(prefixes map[string]models.ResourceKind) PathMatcher {
	ordered := make([]string, 0, len(prefixes))
	for prefix := range prefixes {
		ordered = append(ordered, prefix)
	}
	// longest first so /ksiazka/recenzje wins over /ksiazka
	sort.Slice(ordered, func(i, j int) bool { return len(ordered[i]) > len(ordered[j]) })

	return func(path string) models.ResourceKind {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		for _, prefix := range ordered {
			if strings.HasPrefix(path, prefix) {
				return prefixes[prefix]
			}
		}
		return models.KindURL
	}
}
