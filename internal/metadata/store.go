// Package metadata persists the durable record of every matched remote item.
// (websiteID, remoteID) uniqueness is what makes re-running ingestion
// idempotent.
package metadata

import (
	"context"
	"fmt"
	"sync"

	"bookscout/internal/models"
)

// Store is the ScrapperMetadata contract the crawler and iterator write
// through.
type Store interface {
	// KnownRemoteID reports whether the remote item was ingested before.
	KnownRemoteID(ctx context.Context, website models.Website, remoteID string) (bool, error)

	// Save upserts the metadata row for (website, remoteID). Saving the same
	// remote id twice updates content in place; it never duplicates rows.
	Save(ctx context.Context, meta models.ScrapperMetadata) error

	// SetStatus updates the processing status of an existing row.
	SetStatus(ctx context.Context, website models.Website, remoteID string, status models.MetadataStatus) error
}

// Memory is an in-memory Store for tests.
type Memory struct {
	mu   sync.Mutex
	rows map[string]models.ScrapperMetadata
}

// NewMemory builds an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{rows: make(map[string]models.ScrapperMetadata)}
}

func (m *Memory) KnownRemoteID(_ context.Context, website models.Website, remoteID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[memKey(website.ID, remoteID)]
	return ok, nil
}

func (m *Memory) Save(_ context.Context, meta models.ScrapperMetadata) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[memKey(meta.WebsiteID, meta.RemoteID)] = meta
	return nil
}

func (m *Memory) SetStatus(_ context.Context, website models.Website, remoteID string, status models.MetadataStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memKey(website.ID, remoteID)
	if row, ok := m.rows[key]; ok {
		row.Status = status
		m.rows[key] = row
	}
	return nil
}

// Count returns the number of stored rows, for idempotency assertions.
func (m *Memory) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func memKey(websiteID int64, remoteID string) string {
	return fmt.Sprintf("%d/%s", websiteID, remoteID)
}
