package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"bookscout/internal/models"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// candidateEnvelope is the wire format shipped to the catalog pipeline.
type candidateEnvelope struct {
	WebsiteID  int64                   `json:"website_id"`
	WebsiteURL string                  `json:"website_url"`
	Candidate  *models.CandidateRecord `json:"candidate"`
	ScrapedAt  time.Time               `json:"scraped_at"`
}

// KafkaSink publishes matched candidates to the catalog topic. Dedup and
// canonical storage happen downstream; the sink only ships.
type KafkaSink struct {
	writer messageWriter
}

// NewKafkaSink creates a sink for the given broker and topic.
func NewKafkaSink(broker, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(broker),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: false,
		},
	}
}

// NewKafkaSinkWithWriter builds a sink using a custom writer (tests).
func NewKafkaSinkWithWriter(writer messageWriter) *KafkaSink {
	return &KafkaSink{writer: writer}
}

// Close shuts down the underlying writer.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

// SaveCandidate publishes one candidate, keyed by (website, remote id) so
// re-runs land on the same partition and compact cleanly.
func (s *KafkaSink) SaveCandidate(ctx context.Context, website models.Website, record *models.CandidateRecord) error {
	payload, err := json.Marshal(candidateEnvelope{
		WebsiteID:  website.ID,
		WebsiteURL: website.URL,
		Candidate:  record,
		ScrapedAt:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%d/%s", website.ID, record.RemoteID)),
		Value: payload,
		Time:  time.Now().UTC(),
	}

	return s.writer.WriteMessages(ctx, msg)
}
