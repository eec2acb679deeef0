package scrapper

import (
	"fmt"

	"bookscout/internal/classify"
	"bookscout/internal/models"
)

// GroupConfig wires one target site: its URLs, classifier and matchers.
type GroupConfig struct {
	Name        string
	HomepageURL string
	SearchURL   string
	Classifier  *classify.Table
	Matchers    map[models.ResourceKind]Matcher
}

// Group is the composition root for one target site.
type Group struct {
	Name        string
	HomepageURL string
	SearchURL   string
	Classifier  *classify.Table
	matchers    map[models.ResourceKind]Matcher
}

// NewGroup validates the site wiring. A missing homepage URL or classifier
// is a configuration error and aborts before any fetching.
func NewGroup(cfg GroupConfig) (*Group, error) {
	if cfg.HomepageURL == "" {
		return nil, fmt.Errorf("scrapper: group %q: missing homepage URL", cfg.Name)
	}
	if cfg.Classifier == nil {
		return nil, fmt.Errorf("scrapper: group %q: missing classifier", cfg.Name)
	}
	return &Group{
		Name:        cfg.Name,
		HomepageURL: cfg.HomepageURL,
		SearchURL:   cfg.SearchURL,
		Classifier:  cfg.Classifier,
		matchers:    cfg.Matchers,
	}, nil
}

// MatcherFor returns the matcher registered for kind.
func (g *Group) MatcherFor(kind models.ResourceKind) (Matcher, bool) {
	m, ok := g.matchers[kind]
	return m, ok
}
