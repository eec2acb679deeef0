package scrapper

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bookscout/internal/fetch"
)

// ShopConfig describes one book-shop site the matchers scrape. The path
// prefixes double as the classifier rules for the site.
type ShopConfig struct {
	Name           string
	HomepageURL    string
	SearchURL      string // listing endpoint; the phrase is appended as ?q=
	BookPath       string
	AuthorPath     string
	PublisherPath  string
	ReviewPath     string
	PaginationPath string  // listing pages; crawled eagerly but never analyzed
	Threshold      float64 // fuzzy anchor acceptance; 0 = anchor.DefaultThreshold
}

// Validate reports missing required URLs. Called by NewShopGroup before any
// fetching begins.
func (c ShopConfig) Validate() error {
	if c.HomepageURL == "" {
		return fmt.Errorf("scrapper: shop %q: missing homepage URL", c.Name)
	}
	if c.SearchURL == "" {
		return fmt.Errorf("scrapper: shop %q: missing search URL", c.Name)
	}
	return nil
}

func (c ShopConfig) searchURLFor(phrase string) string {
	return c.SearchURL + "?q=" + url.QueryEscape(phrase)
}

func (c ShopConfig) absolute(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return fetch.ConcatURL(c.HomepageURL, path)
}

// propsTable reads a `<ul>` of `<li><span>Key:</span> value</li>` rows into
// a lowercased key -> value map, the layout shop product pages share.
func propsTable(list *goquery.Selection) map[string]string {
	props := make(map[string]string)
	list.Each(func(_ int, li *goquery.Selection) {
		label := li.Children().First().Text()
		key := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(label), ":"))
		if key == "" {
			return
		}
		value := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(li.Text()), strings.TrimSpace(label)))
		props[key] = value
	})
	return props
}

// countStars converts a ★★★☆☆-style widget into a 0-10 rating.
func countStars(content string) *float64 {
	if content == "" {
		return nil
	}
	var filled int
	for _, r := range content {
		if r == '★' {
			filled++
		}
	}
	rating := float64(filled) * 2
	return &rating
}
