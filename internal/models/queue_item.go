package models

import "time"

// QueueItemStatus is the lifecycle state of a frontier entry.
type QueueItemStatus string

const (
	QueueItemNew      QueueItemStatus = "new"
	QueueItemClaimed  QueueItemStatus = "claimed" // transient: popped but not yet resolved
	QueueItemAnalyzed QueueItemStatus = "analyzed"
	QueueItemError    QueueItemStatus = "error"
)

// QueueItem is one unit of crawl work. (WebsiteID, Key) is unique so
// re-discovering the same path is a no-op rather than a duplicate insert.
type QueueItem struct {
	ID        int64           `db:"id" json:"id"`
	WebsiteID int64           `db:"website_id" json:"website_id"`
	Key       string          `db:"key" json:"key"`
	Path      string          `db:"path" json:"path"`
	Kind      ResourceKind    `db:"kind" json:"kind"`
	Priority  int             `db:"priority" json:"priority"`
	Status    QueueItemStatus `db:"status" json:"status"`
	Attempts  int             `db:"attempts" json:"attempts"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
