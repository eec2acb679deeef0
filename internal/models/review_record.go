package models

// ReviewRecord is a parsed book review candidate from a review listing API.
// Score is the number of filled stars out of ten; nil when the post carried
// no rating.
type ReviewRecord struct {
	RemoteID string   `json:"remote_id"`
	Title    string   `json:"title"`
	Authors  []string `json:"authors,omitempty"`
	ISBN     string   `json:"isbn,omitempty"`
	Category string   `json:"category,omitempty"`
	Score    *int     `json:"score,omitempty"`
	Content  string   `json:"content"`
	Reviewer string   `json:"reviewer,omitempty"`
	Votes    int      `json:"votes,omitempty"`
	URL      string   `json:"url,omitempty"`
}
