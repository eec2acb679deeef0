package models

import "encoding/json"

// CandidateRecord is the kind-tagged result of a matcher. Exactly one of the
// kind-specific fields is set. The core never persists candidates itself;
// they are handed to the external persistence collaborator.
type CandidateRecord struct {
	Kind      ResourceKind     `json:"kind"`
	RemoteID  string           `json:"remote_id"`
	URL       string           `json:"url,omitempty"`
	Book      *BookRecord      `json:"book,omitempty"`
	Author    *AuthorRecord    `json:"author,omitempty"`
	Publisher *PublisherRecord `json:"publisher,omitempty"`
	Review    *ReviewRecord    `json:"review,omitempty"`
}

// Content marshals the candidate payload for a ScrapperMetadata row.
func (c CandidateRecord) Content() (json.RawMessage, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return payload, nil
}
