package scrapper

import (
	"context"
	"log"

	"github.com/PuerkitoBio/goquery"

	"bookscout/internal/fetch"
	"bookscout/internal/models"
)

// ReviewMatcher extracts review candidates from shop review pages. Reviews
// reached through the paginated API go through the review iterator instead;
// this matcher covers review pages discovered by the spider.
type ReviewMatcher struct {
	client *fetch.Client
	cfg    ShopConfig
}

// NewReviewMatcher builds a review matcher for one shop.
func NewReviewMatcher(client *fetch.Client, cfg ShopConfig) *ReviewMatcher {
	return &ReviewMatcher{client: client, cfg: cfg}
}

func (m *ReviewMatcher) MatchRecord(ctx context.Context, q Query) (*models.CandidateRecord, error) {
	if q.Path == "" {
		return nil, nil
	}

	page := q.Page
	if page == nil {
		var err error
		page, err = m.client.Get(ctx, m.cfg.absolute(q.Path))
		if err != nil {
			return nil, err
		}
	}

	doc := page.Doc
	title := NormalizeText(doc.Find(".review h2.review-title").First().Text())
	content := NormalizeText(doc.Find(".review .review-body").Text())
	if title == "" || content == "" {
		log.Printf("review extract: missing title or body at %s, skipping", page.URL)
		return nil, nil
	}

	review := &models.ReviewRecord{
		RemoteID: q.Path,
		Title:    title,
		Content:  content,
		URL:      page.URL,
	}
	doc.Find(".review .review-book-author").Each(func(_ int, a *goquery.Selection) {
		if name := NormalizeText(a.Text()); name != "" {
			review.Authors = append(review.Authors, name)
		}
	})
	if stars, ok := doc.Find(".review .review-score").Attr("data-content"); ok {
		if rating := countStars(stars); rating != nil {
			score := int(*rating)
			review.Score = &score
		}
	}

	return &models.CandidateRecord{
		Kind:     models.KindBookReview,
		RemoteID: q.Path,
		URL:      page.URL,
		Review:   review,
	}, nil
}
