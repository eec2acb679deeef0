// Package queue owns the durable crawl frontier: a deduplicated, prioritized
// store of pending and visited work items scoped per website. The atomic
// PopNext claim is the only mutual-exclusion point in the crawler.
package queue

import (
	"context"
	"errors"

	"bookscout/internal/models"
)

// ErrEmpty is returned by PopNext when the website has no NEW items left.
// Callers should check with errors.Is().
var ErrEmpty = errors.New("queue: no new items for website")

// Driver is the frontier contract the spider crawls against.
type Driver interface {
	// Enqueue inserts a discovered link once per (website, key). It reports
	// false, without error, when the link was already known in any status.
	Enqueue(ctx context.Context, website models.Website, link models.CrawlerLink) (bool, error)

	// PopNext atomically claims the highest-priority NEW item for website,
	// ties broken by earliest creation. Two concurrent pops never return the
	// same item. Returns ErrEmpty when the frontier is drained.
	PopNext(ctx context.Context, website models.Website) (*models.QueueItem, error)

	// MarkAnalyzed records a successful fetch+extraction.
	MarkAnalyzed(ctx context.Context, item *models.QueueItem) error

	// MarkError records a failed fetch; the item is never retried within the
	// same run.
	MarkError(ctx context.Context, item *models.QueueItem) error

	// Requeue resets an item to NEW on explicit external refresh.
	Requeue(ctx context.Context, website models.Website, path string) error
}
