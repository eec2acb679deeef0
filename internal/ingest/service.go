// Package ingest is the invocation surface of the crawler: full or per-site
// refreshes and single-record upserts, each idempotent against the
// ScrapperMetadata store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"bookscout/internal/fetch"
	"bookscout/internal/metadata"
	"bookscout/internal/models"
	"bookscout/internal/queue"
	"bookscout/internal/review"
	"bookscout/internal/scrapper"
	"bookscout/internal/spider"
)

// Sink is the external persistence collaborator candidates are handed to.
// The core never stores candidates itself.
type Sink interface {
	SaveCandidate(ctx context.Context, website models.Website, record *models.CandidateRecord) error
}

// Frontier is the queue driver plus website resolution, as both the
// Postgres and in-memory drivers provide it.
type Frontier interface {
	queue.Driver
	FindOrCreateWebsite(ctx context.Context, rawURL string) (models.Website, error)
}

// Config wires the service. Registry, Frontier, Metadata and Client are
// required; Sink and Sources are optional collaborators.
type Config struct {
	Registry *scrapper.Registry
	Frontier Frontier
	Metadata metadata.Store
	Sink     Sink
	Client   *fetch.Client

	// Sources maps a website URL to its paged review listing, for sites
	// ingested through the iterator instead of the link graph.
	Sources map[string]review.Source

	Delay         time.Duration
	MaxIterations int
}

// Service runs refresh operations over every registered site.
type Service struct {
	cfg Config
}

// NewService validates the wiring.
func NewService(cfg Config) (*Service, error) {
	if cfg.Registry == nil {
		return nil, errors.New("ingest: nil registry")
	}
	if cfg.Frontier == nil {
		return nil, errors.New("ingest: nil frontier")
	}
	if cfg.Metadata == nil {
		return nil, errors.New("ingest: nil metadata store")
	}
	if cfg.Client == nil {
		return nil, errors.New("ingest: nil fetch client")
	}
	return &Service{cfg: cfg}, nil
}

// SaveCandidate persists one candidate: hand it to the sink, then upsert
// its metadata row. The (website, remoteID) upsert is what makes every
// refresh operation idempotent.
func (s *Service) SaveCandidate(ctx context.Context, website models.Website, record *models.CandidateRecord) error {
	if s.cfg.Sink != nil {
		if err := s.cfg.Sink.SaveCandidate(ctx, website, record); err != nil {
			return fmt.Errorf("ingest: sink: %w", err)
		}
	}
	content, err := record.Content()
	if err != nil {
		return fmt.Errorf("ingest: marshal candidate %s: %w", record.RemoteID, err)
	}
	return s.cfg.Metadata.Save(ctx, models.ScrapperMetadata{
		WebsiteID: website.ID,
		RemoteID:  record.RemoteID,
		Kind:      record.Kind,
		Status:    models.MetadataProcessed,
		Content:   content,
	})
}

// RefreshLatest crawls every registered site in turn, up to maxIterations
// frontier items per site. Per-site failures are logged and do not stop the
// remaining sites.
func (s *Service) RefreshLatest(ctx context.Context, maxIterations int) (spider.Summary, error) {
	var total spider.Summary
	for _, group := range s.cfg.Registry.All() {
		sum, err := s.refreshGroup(ctx, group, maxIterations)
		total.Analyzed += sum.Analyzed
		total.Errored += sum.Errored
		total.Skipped += sum.Skipped
		if err != nil {
			if ctx.Err() != nil {
				return total, err
			}
			log.Printf("ingest: refresh %s: %v", group.Name, err)
		}
	}
	return total, nil
}

// RefreshSite refreshes one named site. Review refreshes on sites with a
// paged listing source go through the iterator, resumable from initialPage;
// everything else runs the site's spider.
func (s *Service) RefreshSite(ctx context.Context, websiteURL string, kind models.ResourceKind, initialPage int) (spider.Summary, error) {
	group := s.cfg.Registry.ByWebsiteURL(websiteURL)
	if group == nil {
		return spider.Summary{}, fmt.Errorf("ingest: unknown website %q", websiteURL)
	}
	if kind == models.KindBookReview {
		if source, ok := s.cfg.Sources[group.HomepageURL]; ok {
			return s.iterateReviews(ctx, group, source, initialPage)
		}
	}
	return s.refreshGroup(ctx, group, s.cfg.MaxIterations)
}

// RefreshSingle fetches and upserts one remote record by id. A page that no
// longer matches is logged and skipped; re-running with the same arguments
// never duplicates metadata rows.
func (s *Service) RefreshSingle(ctx context.Context, websiteURL string, kind models.ResourceKind, remoteID string) error {
	group := s.cfg.Registry.ByWebsiteURL(websiteURL)
	if group == nil {
		return fmt.Errorf("ingest: unknown website %q", websiteURL)
	}
	matcher, ok := group.MatcherFor(kind)
	if !ok {
		return fmt.Errorf("ingest: no %s matcher for %s", kind, group.Name)
	}
	website, err := s.cfg.Frontier.FindOrCreateWebsite(ctx, group.HomepageURL)
	if err != nil {
		return err
	}

	record, err := matcher.MatchRecord(ctx, scrapper.Query{Kind: kind, Path: remoteID})
	if err != nil {
		return err
	}
	if record == nil {
		log.Printf("ingest: no match for %s %s on %s", kind, remoteID, group.Name)
		return nil
	}
	if err := s.SaveCandidate(ctx, website, record); err != nil {
		return err
	}
	return s.cfg.Frontier.Requeue(ctx, website, remoteID)
}

func (s *Service) refreshGroup(ctx context.Context, group *scrapper.Group, maxIterations int) (spider.Summary, error) {
	website, err := s.cfg.Frontier.FindOrCreateWebsite(ctx, group.HomepageURL)
	if err != nil {
		return spider.Summary{}, err
	}
	crawler, err := spider.New(group, spider.Config{
		Queue:         s.cfg.Frontier,
		Metadata:      s.cfg.Metadata,
		Client:        s.cfg.Client,
		Saver:         s,
		MaxIterations: maxIterations,
		Delay:         s.cfg.Delay,
	})
	if err != nil {
		return spider.Summary{}, err
	}
	log.Printf("ingest: crawling %s", group.Name)
	return crawler.Run(ctx, website)
}

// iterateReviews drains the paged listing into the sink, page by page.
func (s *Service) iterateReviews(ctx context.Context, group *scrapper.Group, source review.Source, initialPage int) (spider.Summary, error) {
	website, err := s.cfg.Frontier.FindOrCreateWebsite(ctx, group.HomepageURL)
	if err != nil {
		return spider.Summary{}, err
	}

	var sum spider.Summary
	it := review.NewIterator(source, s.cfg.Metadata, website, initialPage, s.cfg.MaxIterations)
	for {
		page, err := it.Next(ctx)
		if err != nil {
			return sum, err
		}
		if page == nil {
			return sum, nil
		}
		log.Printf("ingest: scraping page %d of %s", page.Number, group.Name)
		sum.Skipped += page.Skipped
		for _, record := range page.Records {
			if err := s.SaveCandidate(ctx, website, record); err != nil {
				log.Printf("ingest: save review %s: %v", record.RemoteID, err)
				sum.Errored++
				continue
			}
			sum.Analyzed++
		}
	}
}
