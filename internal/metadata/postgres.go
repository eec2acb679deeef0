package metadata

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"bookscout/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS scrapper_metadata (
	id BIGSERIAL PRIMARY KEY,
	website_id BIGINT NOT NULL,
	remote_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'new',
	content JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (website_id, remote_id)
);
`

// PostgresStore persists ScrapperMetadata rows.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open sqlx handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the metadata table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("metadata: ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) KnownRemoteID(ctx context.Context, website models.Website, remoteID string) (bool, error) {
	var known bool
	query := `SELECT EXISTS (SELECT 1 FROM scrapper_metadata WHERE website_id = $1 AND remote_id = $2)`
	if err := s.db.GetContext(ctx, &known, query, website.ID, remoteID); err != nil {
		return false, fmt.Errorf("metadata: known remote id %s: %w", remoteID, err)
	}
	return known, nil
}

// Save upserts on (website_id, remote_id): an explicit refresh of a known
// remote id replaces its content instead of inserting a second row.
func (s *PostgresStore) Save(ctx context.Context, meta models.ScrapperMetadata) error {
	query := `
		INSERT INTO scrapper_metadata (website_id, remote_id, kind, status, content)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (website_id, remote_id) DO UPDATE
			SET kind = EXCLUDED.kind, status = EXCLUDED.status, content = EXCLUDED.content
	`
	if _, err := s.db.ExecContext(ctx, query, meta.WebsiteID, meta.RemoteID, meta.Kind, meta.Status, meta.Content); err != nil {
		return fmt.Errorf("metadata: save %s: %w", meta.RemoteID, err)
	}
	return nil
}

func (s *PostgresStore) SetStatus(ctx context.Context, website models.Website, remoteID string, status models.MetadataStatus) error {
	query := `UPDATE scrapper_metadata SET status = $1 WHERE website_id = $2 AND remote_id = $3`
	if _, err := s.db.ExecContext(ctx, query, status, website.ID, remoteID); err != nil {
		return fmt.Errorf("metadata: set status %s: %w", remoteID, err)
	}
	return nil
}
