package models

// BookRecord is a parsed book candidate: the default title, its authors, and
// whatever releases and availability snapshots the source page exposed.
// Fields a matcher could not extract stay zero, never defaulted.
type BookRecord struct {
	Title        string             `json:"title"`
	Authors      []string           `json:"authors,omitempty"`
	Releases     []BookRelease      `json:"releases,omitempty"`
	Availability []BookAvailability `json:"availability,omitempty"`
}

// BookRelease describes one edition of a book as listed by a shop page.
type BookRelease struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ISBN        string `json:"isbn,omitempty"`
	TotalPages  int    `json:"total_pages,omitempty"`
	Format      string `json:"format,omitempty"`
	PublishDate string `json:"publish_date,omitempty"`
	Translator  string `json:"translator,omitempty"`
	Binding     string `json:"binding,omitempty"`
	Publisher   string `json:"publisher,omitempty"`
	CoverURL    string `json:"cover_url,omitempty"`
}

// BookAvailability is a price/rating snapshot for a book at one shop.
type BookAvailability struct {
	RemoteID     string   `json:"remote_id,omitempty"`
	URL          string   `json:"url,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	PrevPrice    *float64 `json:"prev_price,omitempty"`
	AvgRating    *float64 `json:"avg_rating,omitempty"`
	TotalRatings *int     `json:"total_ratings,omitempty"`
}
