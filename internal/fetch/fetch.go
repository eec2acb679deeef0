// Package fetch retrieves remote pages and parses them into DOM-queryable
// documents. It is the only place in the core that performs HTTP I/O.
package fetch

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultUserAgent is sent with all requests so target sites can identify
// the crawler and apply robots.txt rules or rate limits.
const DefaultUserAgent = "Bookscout/1.0 (+https://github.com/bookscout)"

// Page is a fetched and parsed document.
type Page struct {
	URL    string
	Status int
	Doc    *goquery.Document
}

// Client fetches pages with a shared HTTP client, user agent and optional
// robots.txt rules.
type Client struct {
	http      *http.Client
	userAgent string
	robots    *RobotsRules
}

// NewClient builds a page fetcher. A nil httpClient falls back to a client
// with sane connect/response timeouts; nil robots disables the robots check.
func NewClient(httpClient *http.Client, userAgent string, robots *RobotsRules) *Client {
	if httpClient == nil {
		httpClient = BuildHTTPClient()
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{http: httpClient, userAgent: userAgent, robots: robots}
}

// Get fetches rawURL and parses the body. Failures are reported as *Error
// with a terminal/transient classification.
func (c *Client) Get(ctx context.Context, rawURL string) (*Page, error) {
	if c.robots != nil && !c.robots.Allowed(PathFromURL(rawURL)) {
		return nil, &Error{Kind: KindRobotsDenied, URL: rawURL}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindParse, URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransient, URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, &Error{Kind: KindNotFound, URL: rawURL, Status: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &Error{Kind: KindTransient, URL: rawURL, Status: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindParse, URL: rawURL, Err: err}
	}

	return &Page{URL: rawURL, Status: resp.StatusCode, Doc: doc}, nil
}

// ResolveURL joins base and a possibly relative href into an absolute URL.
func ResolveURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return b.ResolveReference(h).String()
}

// ConcatURL appends path to base, collapsing duplicate slashes at the join.
func ConcatURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
