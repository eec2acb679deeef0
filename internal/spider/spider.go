// Package spider drives the crawl loop for one website: pop the next
// frontier item, fetch it, push newly discovered links back onto the
// frontier, and hand analyzable pages to the site's matchers. The frontier
// carries all crawl state, so a spider can stop and resume at any point.
package spider

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"bookscout/internal/classify"
	"bookscout/internal/fetch"
	"bookscout/internal/metadata"
	"bookscout/internal/models"
	"bookscout/internal/queue"
	"bookscout/internal/scrapper"
)

// DefaultMaxIterations bounds a single Run when the caller does not set a
// budget. A drained frontier ends the run earlier.
const DefaultMaxIterations = 100

// Saver persists matched candidates. The spider does not know where they
// go; the ingest layer decides.
type Saver interface {
	SaveCandidate(ctx context.Context, website models.Website, record *models.CandidateRecord) error
}

// Config wires a spider's collaborators. Queue and Client are required.
type Config struct {
	Queue         queue.Driver
	Metadata      metadata.Store
	Client        *fetch.Client
	Saver         Saver
	MaxIterations int
	Delay         time.Duration
}

// Summary aggregates the outcome of one Run. Individual item failures are
// contained and logged; only the counts surface.
type Summary struct {
	Analyzed int
	Errored  int
	Skipped  int
}

// Spider crawls one site group. Run one spider per website; the queue claim
// is the only coordination needed between spiders.
type Spider struct {
	cfg   Config
	group *scrapper.Group
}

// New validates the wiring. Missing collaborators are configuration errors.
func New(group *scrapper.Group, cfg Config) (*Spider, error) {
	if group == nil {
		return nil, errors.New("spider: nil site group")
	}
	if cfg.Queue == nil {
		return nil, errors.New("spider: nil queue driver")
	}
	if cfg.Client == nil {
		return nil, errors.New("spider: nil fetch client")
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	return &Spider{cfg: cfg, group: group}, nil
}

// Run crawls website until the iteration budget is spent, the frontier is
// drained, or ctx is cancelled. Cancellation is checked once per iteration;
// the in-flight item finishes first.
func (s *Spider) Run(ctx context.Context, website models.Website) (Summary, error) {
	var sum Summary
	seeded := false

	for i := 0; i < s.cfg.MaxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		item, err := s.cfg.Queue.PopNext(ctx, website)
		if errors.Is(err, queue.ErrEmpty) {
			if seeded {
				return sum, nil
			}
			seeded = true
			if err := s.seedHomepage(ctx, website); err != nil {
				return sum, err
			}
			continue
		}
		if err != nil {
			return sum, err
		}

		if i > 0 && s.cfg.Delay > 0 {
			select {
			case <-time.After(s.cfg.Delay):
			case <-ctx.Done():
				return sum, ctx.Err()
			}
		}

		s.crawlItem(ctx, website, item, &sum)
	}
	return sum, nil
}

// seedHomepage bootstraps an empty frontier with the site root so link
// discovery has somewhere to start.
func (s *Spider) seedHomepage(ctx context.Context, website models.Website) error {
	link := s.group.Classifier.Link("/")
	if _, err := s.cfg.Queue.Enqueue(ctx, website, link); err != nil {
		return err
	}
	log.Printf("spider: seeded homepage for website %d (%s)", website.ID, website.URL)
	return nil
}

// crawlItem processes one claimed frontier item end to end. Fetch failures
// mark the item ERROR; everything past a successful fetch marks it ANALYZED,
// including no-match extraction.
func (s *Spider) crawlItem(ctx context.Context, website models.Website, item *models.QueueItem, sum *Summary) {
	pageURL := fetch.ConcatURL(website.URL, item.Path)
	page, err := s.cfg.Client.Get(ctx, pageURL)
	if err != nil {
		if fetch.Terminal(err) {
			log.Printf("spider: permanent failure for %s: %v", pageURL, err)
		} else {
			log.Printf("spider: transient failure for %s: %v", pageURL, err)
		}
		if markErr := s.cfg.Queue.MarkError(ctx, item); markErr != nil {
			log.Printf("spider: mark error for item %d: %v", item.ID, markErr)
		}
		sum.Errored++
		return
	}

	s.enqueueLinks(ctx, website, page)

	if item.Priority > 0 {
		s.analyze(ctx, website, item, page, sum)
	}

	if err := s.cfg.Queue.MarkAnalyzed(ctx, item); err != nil {
		log.Printf("spider: mark analyzed for item %d: %v", item.ID, err)
	}
	sum.Analyzed++
}

// enqueueLinks extracts every same-site anchor from the page, classifies it
// and offers it to the frontier. A rel=next pagination link is promoted so
// the spider walks listings forward before revisiting sibling pages.
// Duplicates are dropped by the queue, not here.
func (s *Spider) enqueueLinks(ctx context.Context, website models.Website, page *fetch.Page) {
	page.Doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		path, ok := s.sitePath(website, page.URL, href)
		if !ok {
			return
		}
		link := s.group.Classifier.Link(path)
		if rel, _ := a.Attr("rel"); rel == "next" && link.Kind == models.KindPagination {
			link.Priority = classify.PriorityNextPage
		}
		if _, err := s.cfg.Queue.Enqueue(ctx, website, link); err != nil {
			log.Printf("spider: enqueue %s: %v", path, err)
		}
	})
}

// sitePath resolves href against the page and keeps it only when it stays
// on the crawled website.
func (s *Spider) sitePath(website models.Website, pageURL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") {
		return "", false
	}
	resolved := fetch.ResolveURL(pageURL, href)
	target, err := url.Parse(resolved)
	if err != nil {
		return "", false
	}
	site, err := url.Parse(website.URL)
	if err != nil || target.Host != site.Host {
		return "", false
	}
	return queue.NormalizePath(resolved), true
}

// analyze dispatches the item to its kind's matcher and saves the candidate.
// The matcher receives the page crawlItem already fetched, so an item costs
// the site exactly one request. A remote id already present in metadata is
// skipped without refetching.
func (s *Spider) analyze(ctx context.Context, website models.Website, item *models.QueueItem, page *fetch.Page, sum *Summary) {
	matcher, ok := s.group.MatcherFor(item.Kind)
	if !ok {
		return
	}

	if s.cfg.Metadata != nil {
		known, err := s.cfg.Metadata.KnownRemoteID(ctx, website, item.Path)
		if err != nil {
			log.Printf("spider: metadata lookup for %s: %v", item.Path, err)
		} else if known {
			sum.Skipped++
			return
		}
	}

	record, err := matcher.MatchRecord(ctx, scrapper.Query{Kind: item.Kind, Path: item.Path, Page: page})
	if err != nil {
		log.Printf("spider: match %s %s: %v", item.Kind, item.Path, err)
		return
	}
	if record == nil {
		log.Printf("spider: no match for %s %s", item.Kind, item.Path)
		return
	}

	if s.cfg.Saver != nil {
		if err := s.cfg.Saver.SaveCandidate(ctx, website, record); err != nil {
			log.Printf("spider: save candidate %s: %v", record.RemoteID, err)
		}
	}
}
