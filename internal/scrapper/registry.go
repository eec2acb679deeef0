package scrapper

import "strings"

// Registry holds every configured site group. It is built once at process
// start and passed into the run operations explicitly; there is no global
// mutable scraper list.
type Registry struct {
	groups []*Group
}

// NewRegistry builds a registry over the given groups.
func NewRegistry(groups ...*Group) *Registry {
	return &Registry{groups: groups}
}

// All returns the registered groups in registration order.
func (r *Registry) All() []*Group {
	return r.groups
}

// ByWebsiteURL finds the group whose homepage matches url (ignoring a
// trailing slash), or nil.
func (r *Registry) ByWebsiteURL(url string) *Group {
	trimmed := strings.TrimRight(url, "/")
	for _, g := range r.groups {
		if strings.TrimRight(g.HomepageURL, "/") == trimmed {
			return g
		}
	}
	return nil
}
