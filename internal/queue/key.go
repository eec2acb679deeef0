package queue

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// NormalizePath reduces a discovered href to the path component the frontier
// stores: no scheme, host, query or fragment, no trailing slash (except the
// root). Graph-traversal items keep only paths, not full content.
func NormalizePath(href string) string {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "/"
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

// Key derives the dedup key for a normalized path. Hashing keeps the unique
// index compact regardless of path length.
func Key(path string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(path))
}
