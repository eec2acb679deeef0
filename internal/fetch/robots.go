package fetch

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// RobotsRules holds disallow rules for a user agent. Matching is prefix
// based: Disallow: /search forbids any path starting with /search.
type RobotsRules struct {
	disallowPrefixes []string
}

// Allowed returns false if path is disallowed by the parsed rules. Empty
// path or uninitialized rules are treated as allowed.
func (r *RobotsRules) Allowed(path string) bool {
	if r == nil || len(r.disallowPrefixes) == 0 {
		return true
	}
	path = normalizePath(path)
	for _, prefix := range r.disallowPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// LoadRobots fetches and parses robots.txt for baseURL. Fetch failures are
// reported so the caller can decide to crawl without rules.
func LoadRobots(ctx context.Context, client *http.Client, baseURL, userAgent string) (*RobotsRules, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	u.Path = "/robots.txt"
	u.RawQuery = ""
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Kind: KindTransient, URL: u.String(), Status: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return ParseRobots(body, userAgent), nil
}

// ParseRobots parses a robots.txt body and returns rules for userAgent,
// using the first User-agent block that matches (exact or "*").
func ParseRobots(body []byte, userAgent string) *RobotsRules {
	r := &RobotsRules{}
	scanner := bufio.NewScanner(strings.NewReader(string(body)))
	var inMatchingBlock bool
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "user-agent:") {
			agent := strings.TrimSpace(line[len("user-agent:"):])
			inMatchingBlock = agent == "*" || strings.EqualFold(agent, userAgent)
			continue
		}
		if inMatchingBlock && strings.HasPrefix(lower, "disallow:") {
			if path := strings.TrimSpace(line[len("disallow:"):]); path != "" {
				r.disallowPrefixes = append(r.disallowPrefixes, normalizePath(path))
			}
		}
	}
	return r
}

// PathFromURL returns the path component of rawURL, or "/" if parsing fails.
func PathFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "/"
	}
	return normalizePath(u.Path)
}

func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		return "/" + p
	}
	return p
}
