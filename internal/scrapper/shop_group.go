package scrapper

import (
	"bookscout/internal/classify"
	"bookscout/internal/fetch"
	"bookscout/internal/models"
)

// NewShopGroup wires a complete site group for one book shop: classifier
// rules derived from its path prefixes and the full matcher set.
func NewShopGroup(client *fetch.Client, cfg ShopConfig) (*Group, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	prefixes := make(map[string]models.ResourceKind)
	for prefix, kind := range map[string]models.ResourceKind{
		cfg.BookPath:       models.KindBook,
		cfg.ReviewPath:     models.KindBookReview,
		cfg.AuthorPath:     models.KindBookAuthor,
		cfg.PublisherPath:  models.KindBookPublisher,
		cfg.PaginationPath: models.KindPagination,
	} {
		if prefix != "" {
			prefixes[prefix] = kind
		}
	}

	table, err := classify.NewTable(classify.PrefixMatcher(prefixes), classify.DefaultPriorities)
	if err != nil {
		return nil, err
	}

	return NewGroup(GroupConfig{
		Name:        cfg.Name,
		HomepageURL: cfg.HomepageURL,
		SearchURL:   cfg.SearchURL,
		Classifier:  table,
		Matchers: map[models.ResourceKind]Matcher{
			models.KindBook:          NewBookMatcher(client, cfg),
			models.KindBookReview:    NewReviewMatcher(client, cfg),
			models.KindBookAuthor:    NewAuthorMatcher(client, cfg),
			models.KindBookPublisher: NewPublisherMatcher(client, cfg),
		},
	})
}
