package models

// PublisherRecord is a parsed publisher candidate.
type PublisherRecord struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
	Email       string `json:"email,omitempty"`
}
