package review

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// Post is one raw listing entry before template parsing.
type Post struct {
	ID     string
	Body   string
	Author string
	Votes  int
	URL    string
}

// Listing is one page of posts plus the continuation flag the source
// reports.
type Listing struct {
	Posts   []Post
	HasNext bool
}

// Source fetches one listing page. Page numbers start at 1.
type Source interface {
	FetchPage(ctx context.Context, page int) (*Listing, error)
}

// TagSource reads the tag-listing JSON API the review community posts
// under. One GET per page; the payload carries the posts and a pagination
// cursor.
type TagSource struct {
	client  *http.Client
	baseURL string
	postURL string
}

// NewTagSource builds a source for a listing endpoint. baseURL is the page
// template root, e.g. "https://api.example.com/tags/entries/bookmeter";
// postURL prefixes each post's permalink.
func NewTagSource(client *http.Client, baseURL, postURL string) *TagSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &TagSource{client: client, baseURL: baseURL, postURL: postURL}
}

type tagEntry struct {
	ID        json.Number `json:"id"`
	Body      string      `json:"body"`
	VoteCount int         `json:"vote_count"`
	Author    struct {
		Login string `json:"login"`
	} `json:"author"`
}

type tagPage struct {
	Data       []tagEntry `json:"data"`
	Pagination struct {
		Next string `json:"next"`
	} `json:"pagination"`
}

func (s *TagSource) FetchPage(ctx context.Context, page int) (*Listing, error) {
	url := s.baseURL + "/page/" + strconv.Itoa(page) + "/"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("review: fetch page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("review: unexpected status %d for %s", resp.StatusCode, url)
	}

	var payload tagPage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("review: decode page %d: %w", page, err)
	}

	listing := &Listing{HasNext: payload.Pagination.Next != ""}
	for _, entry := range payload.Data {
		id := entry.ID.String()
		listing.Posts = append(listing.Posts, Post{
			ID:     id,
			Body:   entry.Body,
			Author: entry.Author.Login,
			Votes:  entry.VoteCount,
			URL:    s.postURL + id,
		})
	}
	return listing, nil
}
