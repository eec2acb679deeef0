package models

import (
	"encoding/json"
	"time"
)

// MetadataStatus is the processing state of a scraped remote item.
type MetadataStatus string

const (
	MetadataNew       MetadataStatus = "new"
	MetadataProcessed MetadataStatus = "processed"
	MetadataError     MetadataStatus = "error"
)

// ScrapperMetadata is the durable record of a successfully matched remote
// item. (WebsiteID, RemoteID) is unique; a re-run of ingestion checks this
// row before deciding whether a page is already known.
type ScrapperMetadata struct {
	ID        int64           `db:"id" json:"id"`
	WebsiteID int64           `db:"website_id" json:"website_id"`
	RemoteID  string          `db:"remote_id" json:"remote_id"`
	Kind      ResourceKind    `db:"kind" json:"kind"`
	Status    MetadataStatus  `db:"status" json:"status"`
	Content   json.RawMessage `db:"content" json:"content"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
