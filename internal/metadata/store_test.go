package metadata

import (
	"context"
	"encoding/json"
	"testing"

	"bookscout/internal/models"
)

func TestMemorySaveUpserts(t *testing.T) {
	store := NewMemory()
	website := models.Website{ID: 3}
	meta := models.ScrapperMetadata{
		WebsiteID: website.ID,
		RemoteID:  "/ksiazka/diuna",
		Kind:      models.KindBook,
		Status:    models.MetadataProcessed,
		Content:   json.RawMessage(`{"title":"Diuna"}`),
	}

	for i := 0; i < 2; i++ {
		if err := store.Save(context.Background(), meta); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	if store.Count() != 1 {
		t.Fatalf("rows = %d, want exactly 1 after double save", store.Count())
	}

	known, err := store.KnownRemoteID(context.Background(), website, "/ksiazka/diuna")
	if err != nil {
		t.Fatalf("KnownRemoteID: %v", err)
	}
	if !known {
		t.Fatal("saved remote id must be known")
	}

	known, err = store.KnownRemoteID(context.Background(), website, "/ksiazka/inna")
	if err != nil {
		t.Fatalf("KnownRemoteID: %v", err)
	}
	if known {
		t.Fatal("unsaved remote id must not be known")
	}
}

func TestMemoryScopesByWebsite(t *testing.T) {
	store := NewMemory()
	if err := store.Save(context.Background(), models.ScrapperMetadata{
		WebsiteID: 1,
		RemoteID:  "101",
		Kind:      models.KindBookReview,
		Status:    models.MetadataProcessed,
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	known, err := store.KnownRemoteID(context.Background(), models.Website{ID: 2}, "101")
	if err != nil {
		t.Fatalf("KnownRemoteID: %v", err)
	}
	if known {
		t.Fatal("remote id must be scoped per website")
	}
}

func TestMemorySetStatus(t *testing.T) {
	store := NewMemory()
	website := models.Website{ID: 1}
	if err := store.Save(context.Background(), models.ScrapperMetadata{
		WebsiteID: website.ID,
		RemoteID:  "101",
		Kind:      models.KindBookReview,
		Status:    models.MetadataNew,
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.SetStatus(context.Background(), website, "101", models.MetadataError); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if store.Count() != 1 {
		t.Fatalf("rows = %d", store.Count())
	}
}
