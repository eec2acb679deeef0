package models

// Website identifies one target site, shared by all queue items and metadata
// rows scraped from it.
type Website struct {
	ID       int64  `db:"id" json:"id"`
	URL      string `db:"url" json:"url"`
	Hostname string `db:"hostname" json:"hostname"`
}
