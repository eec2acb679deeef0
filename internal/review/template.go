// Package review ingests book reviews in bulk from sites exposing a paged
// listing API, independently of the link-graph crawler. Posts follow a
// community template with labelled properties; anything off-template is
// dropped per item, never fatally.
package review

import (
	"regexp"
	"strings"

	"bookscout/internal/models"
)

// Property keys the community template uses. Polish labels are the wire
// format; keys are matched lowercased.
const (
	propTitle   = "tytuł"
	propAuthors = "autor"
	propISBN    = "isbn"
	propGenre   = "gatunek"
	propScore   = "ocena"
)

var (
	templateMarker = "<strong>Tytuł:</strong> "
	propRe         = regexp.MustCompile(`<strong>(.+?):</strong>\s(.+?)<br\s?/>`)
	contentRe      = regexp.MustCompile(`(?i)[☆★]<br\s?/><br\s?/>(.*?)(?:<br\s?/><br\s?/>Wpis dodano za pomocą strony|<br\s?/>#<a href="#bookmeter">)`)
)

// IsTemplatePost reports whether the post body follows the review template.
func IsTemplatePost(body string) bool {
	return strings.Contains(body, templateMarker)
}

// ParseProperties extracts the labelled property table from a template post
// body. Keys are lowercased; empty values are omitted.
func ParseProperties(body string) map[string]string {
	props := make(map[string]string)
	for _, match := range propRe.FindAllStringSubmatch(body, -1) {
		key := strings.ToLower(strings.TrimSpace(match[1]))
		value := strings.TrimSpace(match[2])
		if key == "" || value == "" {
			continue
		}
		props[key] = value
	}
	return props
}

// ParseScore counts filled stars in a ★★★☆☆-style property value.
func ParseScore(value string) *int {
	if value == "" {
		return nil
	}
	var filled int
	for _, r := range value {
		if r == '★' {
			filled++
		}
	}
	return &filled
}

// ParseContent extracts the free-text review between the score line and the
// template footer. Returns "" when the body has no recognizable content
// block.
func ParseContent(body string) string {
	flat := strings.ReplaceAll(body, "\n", "")
	match := contentRe.FindStringSubmatch(flat)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

// splitAuthors turns the comma-separated author property into a clean list.
func splitAuthors(value string) []string {
	var authors []string
	for _, part := range strings.Split(value, ",") {
		if name := strings.TrimSpace(part); name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}

// ParsePost converts one listing post into a review candidate. Returns nil
// when the post is off-template or its content block cannot be located;
// such posts are dropped individually.
func ParsePost(post Post) *models.CandidateRecord {
	if !IsTemplatePost(post.Body) {
		return nil
	}
	content := ParseContent(post.Body)
	if content == "" {
		return nil
	}

	props := ParseProperties(post.Body)
	review := &models.ReviewRecord{
		RemoteID: post.ID,
		Title:    props[propTitle],
		ISBN:     props[propISBN],
		Category: props[propGenre],
		Authors:  splitAuthors(props[propAuthors]),
		Content:  content,
		Reviewer: post.Author,
		Votes:    post.Votes,
		URL:      post.URL,
		Score:    ParseScore(props[propScore]),
	}

	return &models.CandidateRecord{
		Kind:     models.KindBookReview,
		RemoteID: post.ID,
		URL:      post.URL,
		Review:   review,
	}
}
