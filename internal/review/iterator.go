package review

import (
	"context"
	"log"

	"bookscout/internal/metadata"
	"bookscout/internal/models"
)

// DefaultMaxIterations bounds one iteration sequence when the caller sets
// no budget.
const DefaultMaxIterations = 50

// Page is one emitted batch of new review candidates.
type Page struct {
	Number  int
	Records []*models.CandidateRecord
	Skipped int // already-known remote ids on this page
	Dropped int // off-template or unparsable posts on this page
	HasNext bool
}

// Iterator pulls review pages lazily. It stops when the source reports no
// next page, the iteration budget is spent, or an entire page parses to
// nothing. Restart from any page by constructing a new iterator with that
// initial page.
type Iterator struct {
	source  Source
	meta    metadata.Store
	website models.Website

	page    int
	budget  int
	emitted int
	done    bool
}

// NewIterator builds an iterator starting at initialPage (pages start at 1;
// 0 means the first page). maxIterations <= 0 uses DefaultMaxIterations.
func NewIterator(source Source, meta metadata.Store, website models.Website, initialPage, maxIterations int) *Iterator {
	if initialPage <= 0 {
		initialPage = 1
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &Iterator{
		source:  source,
		meta:    meta,
		website: website,
		page:    initialPage,
		budget:  maxIterations,
	}
}

// Next emits the next page of candidates, or (nil, nil) when the sequence
// is exhausted. Unparsable posts are dropped per item; known remote ids are
// skipped without re-parsing.
func (it *Iterator) Next(ctx context.Context) (*Page, error) {
	if it.done || it.emitted >= it.budget {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	listing, err := it.source.FetchPage(ctx, it.page)
	if err != nil {
		return nil, err
	}

	page := &Page{Number: it.page, HasNext: listing.HasNext}
	for _, post := range listing.Posts {
		if it.meta != nil {
			known, err := it.meta.KnownRemoteID(ctx, it.website, post.ID)
			if err != nil {
				return nil, err
			}
			if known {
				page.Skipped++
				continue
			}
		}
		record := ParsePost(post)
		if record == nil {
			page.Dropped++
			continue
		}
		page.Records = append(page.Records, record)
	}

	log.Printf("review: page %d of website %d: %d new, %d skipped, %d dropped",
		page.Number, it.website.ID, len(page.Records), page.Skipped, page.Dropped)

	it.emitted++
	it.page++
	if !listing.HasNext {
		it.done = true
	}
	if len(listing.Posts) > 0 && len(page.Records) == 0 && page.Skipped == 0 {
		// A fully off-template page means the tag has drifted away from the
		// review template; continuing would only fetch more noise.
		it.done = true
	}
	return page, nil
}
