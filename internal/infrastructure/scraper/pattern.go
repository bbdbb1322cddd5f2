package scraper

import (
	"html"
	"regexp"
	"strings"

	"github.com/feedmanager/backend/internal/domain"
)

// Pattern alternatives applied per result segment, compiled once.
var (
	// asinSplitPattern cuts the document at each result card. The
	// capture keeps the ids interleaved with the segments.
	asinSplitPattern = regexp.MustCompile(`data-asin="([A-Z0-9]{10})"`)

	imgAltPattern    = regexp.MustCompile(`<img[^>]*\salt="([^"]+)"`)
	titleSpanPattern = regexp.MustCompile(`<span class="a-size-base-plus a-color-base[^"]*"[^>]*>([^<]+)</span>`)
	pricePattern     = regexp.MustCompile(`<span class="a-offscreen">([^<]+)<`)
	imgSrcPattern    = regexp.MustCompile(`<img[^>]*\ssrc="([^"]+)"`)

	// The product link carries the "no outline" style; peripheral UI
	// links do not. The href/class attribute order varies by layout.
	linkPattern    = regexp.MustCompile(`<a[^>]*class="[^"]*s-no-outline[^"]*"[^>]*href="([^"]+)"`)
	linkPatternAlt = regexp.MustCompile(`<a[^>]*href="([^"]+)"[^>]*class="[^"]*s-no-outline[^"]*"`)

	// Rating text as rendered for the Brazilian marketplace.
	ratingPattern = regexp.MustCompile(`([\d][\d,.]*) de 5 estrelas`)

	// Sponsored listings prefix their title; strip it before use.
	sponsoredPattern = regexp.MustCompile(`^\s*Patrocinado\s*[-–—:]*\s*`)
)

// PatternStrategy extracts products by pattern matching over the raw
// text instead of a parsed tree. It is the fallback for markup the
// structured parse fails on without saying so.
type PatternStrategy struct{}

// NewPatternStrategy creates the text-splitting fallback strategy.
func NewPatternStrategy() *PatternStrategy {
	return &PatternStrategy{}
}

func (s *PatternStrategy) Name() string { return "pattern" }

// Extract splits the document at every result-card id attribute and
// applies the field patterns inside each segment independently.
func (s *PatternStrategy) Extract(rawHTML string, limit int) []domain.Product {
	// Only segments inside actual result cards count; anything before
	// the first marker is page chrome.
	if !strings.Contains(rawHTML, resultMarker) {
		return nil
	}

	matches := asinSplitPattern.FindAllStringSubmatchIndex(rawHTML, -1)
	if len(matches) == 0 {
		return nil
	}

	var products []domain.Product
	for i, match := range matches {
		asin := rawHTML[match[2]:match[3]]

		segmentEnd := len(rawHTML)
		if i+1 < len(matches) {
			segmentEnd = matches[i+1][0]
		}
		segment := rawHTML[match[1]:segmentEnd]

		products = append(products, s.extractSegment(asin, segment))
		if len(products) >= limit {
			break
		}
	}

	return products
}

// extractSegment applies the ordered field alternatives to one card's
// slice of markup. Only the id is mandatory; everything else degrades
// to absent or to the default title.
func (s *PatternStrategy) extractSegment(asin, segment string) domain.Product {
	product := domain.Product{ASIN: asin}

	// Title: image alt text first, then the size/color tagged span
	if m := imgAltPattern.FindStringSubmatch(segment); m != nil {
		product.Title = cleanTitle(m[1])
	}
	if product.Title == "" {
		if m := titleSpanPattern.FindStringSubmatch(segment); m != nil {
			product.Title = cleanTitle(m[1])
		}
	}

	if m := pricePattern.FindStringSubmatch(segment); m != nil {
		product.Price = normalizePrice(m[1])
	}

	if m := imgSrcPattern.FindStringSubmatch(segment); m != nil {
		product.ImageURL = m[1]
	}

	if m := linkPattern.FindStringSubmatch(segment); m != nil {
		product.DetailURL = html.UnescapeString(m[1])
	} else if m := linkPatternAlt.FindStringSubmatch(segment); m != nil {
		product.DetailURL = html.UnescapeString(m[1])
	}

	if m := ratingPattern.FindStringSubmatch(segment); m != nil {
		product.Rating = m[0]
	}

	return product
}

// cleanTitle unescapes entities and drops the sponsored-listing prefix.
func cleanTitle(raw string) string {
	title := html.UnescapeString(strings.TrimSpace(raw))
	title = sponsoredPattern.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}
