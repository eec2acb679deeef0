package models

// CrawlerLink is an outbound link discovered on a page, already classified.
// Priority <= 0 marks it as observe-only: followed for link extraction but
// never scheduled for content analysis.
type CrawlerLink struct {
	Path     string       `json:"path"`
	Kind     ResourceKind `json:"kind"`
	Priority int          `json:"priority"`
}

// Analyzable reports whether the link should be scheduled for analysis.
func (l CrawlerLink) Analyzable() bool {
	return l.Priority > 0
}
