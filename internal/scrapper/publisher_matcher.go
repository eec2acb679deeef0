package scrapper

import (
	"context"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bookscout/internal/fetch"
	"bookscout/internal/models"
)

// PublisherMatcher extracts publisher candidates from a shop's publisher
// pages, splitting the free-text block into description and contact details.
type PublisherMatcher struct {
	client *fetch.Client
	cfg    ShopConfig
}

// NewPublisherMatcher builds a publisher matcher for one shop.
func NewPublisherMatcher(client *fetch.Client, cfg ShopConfig) *PublisherMatcher {
	return &PublisherMatcher{client: client, cfg: cfg}
}

func (m *PublisherMatcher) MatchRecord(ctx context.Context, q Query) (*models.CandidateRecord, error) {
	page := q.Page
	path := q.Path
	if page == nil {
		if path == "" {
			if q.Name == "" {
				return nil, nil
			}
			path = fetch.ConcatURL(m.cfg.PublisherPath, Parameterize(q.Name, "_"))
		}
		var err error
		page, err = m.client.Get(ctx, m.cfg.absolute(path))
		if err != nil {
			return nil, err
		}
	}

	name := NormalizeText(page.Doc.Find("h1").First().Text())
	if q.Name != "" {
		name = q.Name
	}
	if name == "" {
		log.Printf("publisher extract: no name at %s, skipping", page.URL)
		return nil, nil
	}

	var segments []string
	page.Doc.Find(".publisher-about p").Each(func(_ int, p *goquery.Selection) {
		segments = append(segments, p.Text())
	})
	description, contact := splitContact(segments)

	return &models.CandidateRecord{
		Kind:     models.KindBookPublisher,
		RemoteID: path,
		URL:      page.URL,
		Publisher: &models.PublisherRecord{
			Name:        name,
			Description: NormalizeText(description),
			Address:     matchAddress(contact),
			Email:       matchEmail(contact),
		},
	}, nil
}

// splitContact divides the page paragraphs at the first contact-looking line
// (street address or a contact header) into description and contact blocks.
func splitContact(segments []string) (description, contact string) {
	for i, line := range segments {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "ul.") || strings.Contains(trimmed, "Kontakt:") || strings.Contains(trimmed, "Contact:") {
			return strings.Join(segments[:i], "\n"), strings.Join(segments[i:], "\n")
		}
	}
	return strings.Join(segments, "\n"), ""
}
