package ingest_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/golang/mock/gomock"
	kgo "github.com/segmentio/kafka-go"

	"bookscout/internal/ingest"
	"bookscout/internal/models"
	"bookscout/mocks"
)

func TestKafkaSinkSaveCandidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	writer := mocks.NewMockMessageWriter(ctrl)
	sink := ingest.NewKafkaSinkWithWriter(writer)

	website := models.Website{ID: 4, URL: "https://shop.example"}
	record := &models.CandidateRecord{
		Kind:     models.KindBook,
		RemoteID: "/ksiazka/diuna",
		URL:      "https://shop.example/ksiazka/diuna",
		Book:     &models.BookRecord{Title: "Diuna", Authors: []string{"Frank Herbert"}},
	}

	writer.EXPECT().
		WriteMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs ...kgo.Message) error {
			if len(msgs) != 1 {
				t.Fatalf("expected 1 message, got %d", len(msgs))
			}
			if string(msgs[0].Key) != "4//ksiazka/diuna" {
				t.Fatalf("unexpected message key: %s", string(msgs[0].Key))
			}

			var got struct {
				WebsiteID  int64                   `json:"website_id"`
				WebsiteURL string                  `json:"website_url"`
				Candidate  *models.CandidateRecord `json:"candidate"`
			}
			if err := json.Unmarshal(msgs[0].Value, &got); err != nil {
				t.Fatalf("failed to decode message: %v", err)
			}
			if got.WebsiteID != website.ID || got.WebsiteURL != website.URL {
				t.Fatalf("unexpected envelope: %+v", got)
			}
			if got.Candidate == nil || got.Candidate.Book == nil || got.Candidate.Book.Title != "Diuna" {
				t.Fatalf("unexpected candidate payload: %+v", got.Candidate)
			}
			return nil
		})

	if err := sink.SaveCandidate(context.Background(), website, record); err != nil {
		t.Fatalf("SaveCandidate returned error: %v", err)
	}
}

func TestKafkaSinkClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	writer := mocks.NewMockMessageWriter(ctrl)
	writer.EXPECT().Close().Return(nil)

	if err := ingest.NewKafkaSinkWithWriter(writer).Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}
