package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/feedmanager/backend/internal/domain"
)

// StructuredStrategy parses the document into a tree and walks the
// result cards. It is the primary strategy: precise on well-formed
// markup, but silently useless when the parse mangles a truncated
// page, which is what the pattern fallback is for.
type StructuredStrategy struct {
	origin string // e.g. "https://www.amazon.com.br"
}

// NewStructuredStrategy creates the tree-parsing strategy. Relative
// detail links resolve against the marketplace origin.
func NewStructuredStrategy(marketplace string) *StructuredStrategy {
	return &StructuredStrategy{
		origin: "https://www.amazon." + domain.MarketplaceTLD(marketplace),
	}
}

func (s *StructuredStrategy) Name() string { return "structured" }

// Extract selects every search-result card and pulls the product
// fields out of its subtree. A card without an item id is skipped
// entirely; that is the only hard requirement.
func (s *StructuredStrategy) Extract(html string, limit int) []domain.Product {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var products []domain.Product

	doc.Find("div[data-component-type='" + resultMarker + "']").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		asin, _ := card.Attr("data-asin")
		if !validASIN(asin) {
			return true
		}

		product := domain.Product{ASIN: asin}

		if title := strings.TrimSpace(card.Find("h2 span").First().Text()); title != "" {
			product.Title = title
		}

		// The visible price is split into fragments; the
		// screen-reader span carries it whole.
		if price := card.Find("span.a-price span.a-offscreen").First().Text(); price != "" {
			product.Price = normalizePrice(price)
		}

		if src, ok := card.Find("img.s-image").First().Attr("src"); ok {
			product.ImageURL = src
		}

		if href, ok := card.Find("h2 a").First().Attr("href"); ok {
			product.DetailURL = s.resolveURL(href)
		}

		// Accessible rating text, e.g. "4,7 de 5 estrelas". Kept as
		// free text; the site's formatting is not guaranteed numeric.
		if rating := strings.TrimSpace(card.Find("span.a-icon-alt").First().Text()); rating != "" {
			product.Rating = rating
		}

		products = append(products, product)
		return len(products) < limit
	})

	return products
}

// resolveURL anchors a relative detail link to the marketplace origin.
func (s *StructuredStrategy) resolveURL(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return s.origin + href
}
