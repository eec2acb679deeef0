package models

// AuthorRecord is a parsed author candidate.
type AuthorRecord struct {
	Name string `json:"name"`
	Bio  string `json:"bio,omitempty"`
}
