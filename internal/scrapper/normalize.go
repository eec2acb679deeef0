package scrapper

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	priceRe    = regexp.MustCompile(`(\d+(?:[.,]\d{1,2})?)\s*(?:zł|PLN)`)
	isbnRe     = regexp.MustCompile(`[^0-9Xx]`)
	slugStrip  = regexp.MustCompile(`[^a-z0-9]+`)
	spaceRuns  = regexp.MustCompile(`\s+`)
	addressRe  = regexp.MustCompile(`(?m)^\s*ul\.\s*(.*)$`)
	emailRe    = regexp.MustCompile(`(?m)^\s*e-?mail:\s*(.*)$`)
)

// NormalizeText collapses whitespace and trims; empty results stay empty so
// missing fields are never populated with noise.
func NormalizeText(text string) string {
	return strings.TrimSpace(spaceRuns.ReplaceAllString(text, " "))
}

// NormalizeISBN strips separators from a scraped ISBN, keeping digits and
// the X check character.
func NormalizeISBN(raw string) string {
	return strings.ToUpper(isbnRe.ReplaceAllString(raw, ""))
}

// NormalizePrice extracts the first price-looking amount from text. Returns
// nil when no price is present.
func NormalizePrice(text string) *float64 {
	match := priceRe.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", "."), 64)
	if err != nil {
		return nil
	}
	return &value
}

// Parameterize turns a display name into the URL slug convention shop sites
// use for author and publisher paths.
func Parameterize(name, sep string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(name), sep)
	return strings.Trim(slug, sep)
}

// matchAddress and matchEmail pull contact details out of a publisher
// description block.
func matchAddress(text string) string {
	if m := addressRe.FindStringSubmatch(text); m != nil {
		return NormalizeText(m[1])
	}
	return ""
}

func matchEmail(text string) string {
	if m := emailRe.FindStringSubmatch(text); m != nil {
		return NormalizeText(m[1])
	}
	return ""
}
