package scrapper

import (
	"context"
	"log"

	"bookscout/internal/fetch"
	"bookscout/internal/models"
)

// AuthorMatcher extracts author candidates. Without a direct path it builds
// the site's canonical author URL from the parameterized name.
type AuthorMatcher struct {
	client *fetch.Client
	cfg    ShopConfig
}

// NewAuthorMatcher builds an author matcher for one shop.
func NewAuthorMatcher(client *fetch.Client, cfg ShopConfig) *AuthorMatcher {
	return &AuthorMatcher{client: client, cfg: cfg}
}

func (m *AuthorMatcher) MatchRecord(ctx context.Context, q Query) (*models.CandidateRecord, error) {
	page := q.Page
	path := q.Path
	if page == nil {
		if path == "" {
			if q.Name == "" {
				return nil, nil
			}
			path = fetch.ConcatURL(m.cfg.AuthorPath, Parameterize(q.Name, "-"))
		}
		var err error
		page, err = m.client.Get(ctx, m.cfg.absolute(path))
		if err != nil {
			return nil, err
		}
	}

	name := NormalizeText(page.Doc.Find("h1.author-name").First().Text())
	if name == "" {
		log.Printf("author extract: no name at %s, skipping", page.URL)
		return nil, nil
	}

	return &models.CandidateRecord{
		Kind:     models.KindBookAuthor,
		RemoteID: path,
		URL:      page.URL,
		Author: &models.AuthorRecord{
			Name: name,
			Bio:  NormalizeText(page.Doc.Find(".author-bio p").Text()),
		},
	}, nil
}
