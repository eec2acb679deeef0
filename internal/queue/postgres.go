package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	"github.com/jmoiron/sqlx"

	"bookscout/internal/models"
)

// Frontier schema. Applied idempotently at startup; production deployments
// run the same statements as migrations.
const schema = `
CREATE TABLE IF NOT EXISTS websites (
	id BIGSERIAL PRIMARY KEY,
	url TEXT NOT NULL UNIQUE,
	hostname TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS queue_items (
	id BIGSERIAL PRIMARY KEY,
	website_id BIGINT NOT NULL REFERENCES websites(id),
	key TEXT NOT NULL,
	path TEXT NOT NULL,
	kind TEXT NOT NULL,
	priority INT NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'new',
	attempts INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (website_id, key)
);

CREATE INDEX IF NOT EXISTS queue_items_pop_idx
	ON queue_items (website_id, status, priority DESC, created_at ASC);
`

const itemColumns = `id, website_id, key, path, kind, priority, status, attempts, created_at`

// Postgres is the durable frontier driver. It survives process restarts: a
// crawl resumes by popping existing NEW rows rather than rebuilding the
// frontier from a seed URL.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres wraps an open sqlx handle.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the frontier tables when missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("queue: ensure schema: %w", err)
	}
	return nil
}

// ReclaimStale resets rows stuck in the transient claimed status back to
// NEW. A crash between claim and mark leaves such rows behind; binaries run
// the sweep at startup, before any spider claims work.
func (p *Postgres) ReclaimStale(ctx context.Context) (int64, error) {
	query := `UPDATE queue_items SET status = $1 WHERE status = $2`
	res, err := p.db.ExecContext(ctx, query, models.QueueItemNew, models.QueueItemClaimed)
	if err != nil {
		return 0, fmt.Errorf("queue: reclaim stale items: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("queue: reclaim stale items: %w", err)
	}
	return n, nil
}

// FindOrCreateWebsite resolves the Website row for rawURL, creating it on
// first sight. All queue items and metadata rows for the site share it.
func (p *Postgres) FindOrCreateWebsite(ctx context.Context, rawURL string) (models.Website, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return models.Website{}, fmt.Errorf("queue: invalid website URL %q", rawURL)
	}

	var website models.Website
	query := `
		INSERT INTO websites (url, hostname) VALUES ($1, $2)
		ON CONFLICT (url) DO UPDATE SET hostname = EXCLUDED.hostname
		RETURNING id, url, hostname
	`
	if err := p.db.GetContext(ctx, &website, query, rawURL, u.Hostname()); err != nil {
		return models.Website{}, fmt.Errorf("queue: find or create website: %w", err)
	}
	return website, nil
}

// Enqueue inserts the link once per (website, key); a conflict is a no-op
// reported as false. Re-discovering a visited page never duplicates work,
// which is what breaks link-graph cycles.
func (p *Postgres) Enqueue(ctx context.Context, website models.Website, link models.CrawlerLink) (bool, error) {
	path := NormalizePath(link.Path)
	query := `
		INSERT INTO queue_items (website_id, key, path, kind, priority)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (website_id, key) DO NOTHING
	`
	res, err := p.db.ExecContext(ctx, query, website.ID, Key(path), path, link.Kind, link.Priority)
	if err != nil {
		return false, fmt.Errorf("queue: enqueue %s: %w", path, err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("queue: enqueue %s: %w", path, err)
	}
	return inserted > 0, nil
}

// PopNext claims the best NEW item inside one transaction. FOR UPDATE SKIP
// LOCKED keeps concurrent workers off the same row without long-lived locks.
func (p *Postgres) PopNext(ctx context.Context, website models.Website) (*models.QueueItem, error) {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("queue: begin claim: %w", err)
	}
	defer tx.Rollback()

	var item models.QueueItem
	selectQuery := `
		SELECT ` + itemColumns + `
		FROM queue_items
		WHERE website_id = $1 AND status = $2
		ORDER BY priority DESC, created_at ASC, id ASC
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`
	if err := tx.GetContext(ctx, &item, selectQuery, website.ID, models.QueueItemNew); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("queue: select claimable item: %w", err)
	}

	updateQuery := `UPDATE queue_items SET status = $1, attempts = attempts + 1 WHERE id = $2`
	if _, err := tx.ExecContext(ctx, updateQuery, models.QueueItemClaimed, item.ID); err != nil {
		return nil, fmt.Errorf("queue: claim item %d: %w", item.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("queue: commit claim: %w", err)
	}

	item.Status = models.QueueItemClaimed
	item.Attempts++
	return &item, nil
}

// MarkAnalyzed transitions item to ANALYZED.
func (p *Postgres) MarkAnalyzed(ctx context.Context, item *models.QueueItem) error {
	return p.setStatus(ctx, item, models.QueueItemAnalyzed)
}

// MarkError transitions item to ERROR. The row stays so the frontier entry
// is not recreated on re-discovery.
func (p *Postgres) MarkError(ctx context.Context, item *models.QueueItem) error {
	return p.setStatus(ctx, item, models.QueueItemError)
}

func (p *Postgres) setStatus(ctx context.Context, item *models.QueueItem, status models.QueueItemStatus) error {
	if _, err := p.db.ExecContext(ctx, `UPDATE queue_items SET status = $1 WHERE id = $2`, status, item.ID); err != nil {
		return fmt.Errorf("queue: mark item %d %s: %w", item.ID, status, err)
	}
	item.Status = status
	return nil
}

// Requeue resets the item for path back to NEW. Only an explicit external
// refresh request goes through here.
func (p *Postgres) Requeue(ctx context.Context, website models.Website, path string) error {
	path = NormalizePath(path)
	query := `UPDATE queue_items SET status = $1 WHERE website_id = $2 AND key = $3`
	if _, err := p.db.ExecContext(ctx, query, models.QueueItemNew, website.ID, Key(path)); err != nil {
		return fmt.Errorf("queue: requeue %s: %w", path, err)
	}
	return nil
}
