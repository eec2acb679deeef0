// Package scrapper binds target sites to their extraction logic: one
// matcher per resource kind, composed into per-site groups and an explicit
// registry owned by the caller.
package scrapper

import (
	"context"

	"bookscout/internal/fetch"
	"bookscout/internal/models"
)

// Query is the kind-specific input to a matcher. Page, when set, is the
// already fetched document for Path and the matcher extracts from it
// without touching the site again. Otherwise Path selects direct mode, and
// without either the matcher searches the site with Title/Authors (books)
// or builds the canonical path from Name (authors, publishers).
type Query struct {
	Kind    models.ResourceKind
	Path    string
	Page    *fetch.Page
	Title   string
	Authors []string
	Name    string
}

// Matcher turns a fetched page or a structured query into a candidate
// record for one resource kind. A nil record with a nil error means "no
// match": the page could not be confidently identified as the target or a
// required field could not be parsed. Matchers never guess missing fields.
type Matcher interface {
	MatchRecord(ctx context.Context, q Query) (*models.CandidateRecord, error)
}
