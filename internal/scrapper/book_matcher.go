package scrapper

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bookscout/internal/anchor"
	"bookscout/internal/fetch"
	"bookscout/internal/models"
)

// BookMatcher extracts book candidates from shop product pages. Direct mode
// fetches a known path; search mode goes through the site search and the
// fuzzy anchor matcher first.
type BookMatcher struct {
	client *fetch.Client
	cfg    ShopConfig
}

// NewBookMatcher builds a book matcher for one shop.
func NewBookMatcher(client *fetch.Client, cfg ShopConfig) *BookMatcher {
	return &BookMatcher{client: client, cfg: cfg}
}

func (m *BookMatcher) MatchRecord(ctx context.Context, q Query) (*models.CandidateRecord, error) {
	if q.Page != nil {
		return m.extract(q.Page, q.Path), nil
	}

	path := q.Path
	if path == "" {
		found, err := m.searchByPhrase(ctx, q)
		if err != nil || found == "" {
			return nil, err
		}
		path = found
	}

	page, err := m.client.Get(ctx, m.cfg.absolute(path))
	if err != nil {
		return nil, err
	}
	return m.extract(page, path), nil
}

// searchByPhrase runs the site search for "<title> <first author>" and picks
// the best listing anchor. An empty return means no anchor cleared the
// threshold.
func (m *BookMatcher) searchByPhrase(ctx context.Context, q Query) (string, error) {
	phrase := q.Title
	if len(q.Authors) > 0 {
		phrase += " " + q.Authors[0]
	}
	page, err := m.client.Get(ctx, m.cfg.searchURLFor(phrase))
	if err != nil {
		return "", err
	}

	rows := page.Doc.Find(".products > .product-row")
	best := anchor.Matcher{Threshold: m.cfg.Threshold}.FindBest(
		anchor.Target{Title: q.Title, Authors: q.Authors},
		rows,
		func(sel *goquery.Selection) anchor.Hint {
			return anchor.Hint{
				Title:  sel.Find("a.title").Text(),
				Author: sel.Find("a.author").Text(),
			}
		},
	)
	if best == nil {
		log.Printf("book search: no anchor cleared threshold for %q on %s", q.Title, m.cfg.Name)
		return "", nil
	}
	href, _ := best.Find("a.title").Attr("href")
	return href, nil
}

// extract parses a product page into a candidate. A page without a title
// cannot be confidently identified and yields no match; optional fields stay
// absent rather than defaulted.
func (m *BookMatcher) extract(page *fetch.Page, path string) *models.CandidateRecord {
	doc := page.Doc
	title := NormalizeText(doc.Find("h1.product-title").First().Text())
	if title == "" {
		log.Printf("book extract: no title at %s, skipping", page.URL)
		return nil
	}

	var authors []string
	doc.Find(".product-authors a").Each(func(_ int, a *goquery.Selection) {
		if name := NormalizeText(a.Text()); name != "" {
			authors = append(authors, name)
		}
	})

	props := propsTable(doc.Find("ul.product-info > li"))
	release := models.BookRelease{
		Title:       title,
		Description: NormalizeText(doc.Find(".product-description p").Text()),
		ISBN:        NormalizeISBN(props["isbn"]),
		Format:      NormalizeText(props["format"]),
		PublishDate: NormalizeText(props["published"]),
		Translator:  NormalizeText(props["translator"]),
		Binding:     NormalizeText(strings.ToLower(props["binding"])),
		Publisher:   NormalizeText(props["publisher"]),
	}
	if pages, err := strconv.Atoi(strings.TrimSpace(props["pages"])); err == nil {
		release.TotalPages = pages
	}
	if cover, ok := doc.Find("img.product-cover").Attr("src"); ok {
		release.CoverURL = m.cfg.absolute(cover)
	}

	book := &models.BookRecord{
		Title:    title,
		Authors:  authors,
		Releases: []models.BookRelease{release},
	}
	if avail := m.extractAvailability(doc, page.URL); avail != nil {
		book.Availability = []models.BookAvailability{*avail}
	}

	return &models.CandidateRecord{
		Kind:     models.KindBook,
		RemoteID: path,
		URL:      page.URL,
		Book:     book,
	}
}

// extractAvailability reads the buy-box price/rating snapshot, when present.
func (m *BookMatcher) extractAvailability(doc *goquery.Document, pageURL string) *models.BookAvailability {
	buy := doc.Find(".product-buy").First()
	if buy.Length() == 0 {
		return nil
	}
	avail := models.BookAvailability{URL: pageURL}
	if id, ok := buy.Attr("data-product-id"); ok {
		avail.RemoteID = id
	}
	avail.Price = NormalizePrice(buy.Text())
	if stars, ok := doc.Find(".rating-stars").Attr("data-content"); ok {
		avail.AvgRating = countStars(stars)
	}
	return &avail
}
