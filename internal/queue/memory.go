package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bookscout/internal/models"
)

// Memory is an in-memory Driver with the same claim semantics as Postgres.
// It backs tests and dry runs; nothing survives a restart.
type Memory struct {
	mu      sync.Mutex
	nextID  int64
	items   map[int64]*models.QueueItem
	byKey   map[string]int64 // "websiteID/key" -> item id
	nextWeb int64
	webs    map[string]models.Website
}

// NewMemory builds an empty in-memory frontier.
func NewMemory() *Memory {
	return &Memory{
		items: make(map[int64]*models.QueueItem),
		byKey: make(map[string]int64),
		webs:  make(map[string]models.Website),
	}
}

// FindOrCreateWebsite mirrors the Postgres helper for wiring tests.
func (m *Memory) FindOrCreateWebsite(_ context.Context, rawURL string) (models.Website, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.webs[rawURL]; ok {
		return w, nil
	}
	m.nextWeb++
	w := models.Website{ID: m.nextWeb, URL: rawURL}
	m.webs[rawURL] = w
	return w, nil
}

func (m *Memory) Enqueue(_ context.Context, website models.Website, link models.CrawlerLink) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := NormalizePath(link.Path)
	dedupe := dedupeKey(website.ID, Key(path))
	if _, exists := m.byKey[dedupe]; exists {
		return false, nil
	}

	m.nextID++
	item := &models.QueueItem{
		ID:        m.nextID,
		WebsiteID: website.ID,
		Key:       Key(path),
		Path:      path,
		Kind:      link.Kind,
		Priority:  link.Priority,
		Status:    models.QueueItemNew,
		CreatedAt: time.Now().UTC(),
	}
	m.items[item.ID] = item
	m.byKey[dedupe] = item.ID
	return true, nil
}

func (m *Memory) PopNext(_ context.Context, website models.Website) (*models.QueueItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var best *models.QueueItem
	for _, item := range m.items {
		if item.WebsiteID != website.ID || item.Status != models.QueueItemNew {
			continue
		}
		if best == nil || item.Priority > best.Priority ||
			(item.Priority == best.Priority && item.ID < best.ID) {
			best = item
		}
	}
	if best == nil {
		return nil, ErrEmpty
	}

	best.Status = models.QueueItemClaimed
	best.Attempts++
	claimed := *best
	return &claimed, nil
}

func (m *Memory) MarkAnalyzed(_ context.Context, item *models.QueueItem) error {
	return m.setStatus(item, models.QueueItemAnalyzed)
}

func (m *Memory) MarkError(_ context.Context, item *models.QueueItem) error {
	return m.setStatus(item, models.QueueItemError)
}

func (m *Memory) setStatus(item *models.QueueItem, status models.QueueItemStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if stored, ok := m.items[item.ID]; ok {
		stored.Status = status
	}
	item.Status = status
	return nil
}

// ReclaimStale mirrors the Postgres startup sweep for claimed leftovers.
func (m *Memory) ReclaimStale(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, item := range m.items {
		if item.Status == models.QueueItemClaimed {
			item.Status = models.QueueItemNew
			n++
		}
	}
	return n, nil
}

func (m *Memory) Requeue(_ context.Context, website models.Website, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.byKey[dedupeKey(website.ID, Key(NormalizePath(path)))]; ok {
		m.items[id].Status = models.QueueItemNew
	}
	return nil
}

// Seed inserts an item in a given status, for resumability tests.
func (m *Memory) Seed(website models.Website, link models.CrawlerLink, status models.QueueItemStatus) {
	_, _ = m.Enqueue(context.Background(), website, link)
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.byKey[dedupeKey(website.ID, Key(NormalizePath(link.Path)))]; ok {
		m.items[id].Status = status
	}
}

func dedupeKey(websiteID int64, key string) string {
	return fmt.Sprintf("%d/%s", websiteID, key)
}
