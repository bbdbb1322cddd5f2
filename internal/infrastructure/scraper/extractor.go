package scraper

import (
	"log"
	"regexp"
	"strings"

	"github.com/feedmanager/backend/internal/domain"
)

// resultMarker is the attribute Amazon stamps on every search-result
// card. Both strategies key off it.
const resultMarker = "s-search-result"

// defaultAvailability is what a scraped record gets when the page gives
// no explicit stock signal: a result shown on a search page is assumed
// purchasable. Locale-fixed to the Brazilian marketplace.
const defaultAvailability = "Em estoque"

// asinPattern matches a well-formed marketplace item id.
var asinPattern = regexp.MustCompile(`^[A-Z0-9]{10}$`)

// Strategy extracts products from raw search-results markup. Strategies
// are independent: each must handle arbitrary input on its own.
type Strategy interface {
	Name() string
	Extract(html string, limit int) []domain.Product
}

// ExtractorConfig tunes the extraction pipeline.
type ExtractorConfig struct {
	Marketplace     string
	DefaultCurrency string
	MaxResults      int
}

// Extractor runs an ordered list of strategies against raw markup. A
// later strategy runs only when every earlier one produced zero
// records. It implements domain.Extractor.
type Extractor struct {
	strategies      []Strategy
	defaultCurrency string
	maxResults      int
}

// NewExtractor builds the standard two-strategy pipeline: structured
// tree parsing first, pattern matching over raw text as the fallback
// for malformed or truncated markup.
func NewExtractor(cfg ExtractorConfig) *Extractor {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 20
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "BRL"
	}

	return &Extractor{
		strategies: []Strategy{
			NewStructuredStrategy(cfg.Marketplace),
			NewPatternStrategy(),
		},
		defaultCurrency: cfg.DefaultCurrency,
		maxResults:      cfg.MaxResults,
	}
}

// Extract returns products in page order, capped at the configured
// maximum. Empty input yields zero records, not an error.
func (e *Extractor) Extract(html string) []domain.Product {
	if strings.TrimSpace(html) == "" {
		return nil
	}

	for _, strategy := range e.strategies {
		products := strategy.Extract(html, e.maxResults)
		if len(products) == 0 {
			continue
		}

		log.Printf("[Scraper] strategy %s extracted %d products", strategy.Name(), len(products))
		for i := range products {
			e.applyDefaults(&products[i])
		}
		return products
	}

	return nil
}

// applyDefaults fills the fields every accepted record must carry.
func (e *Extractor) applyDefaults(p *domain.Product) {
	if p.Title == "" {
		p.Title = domain.DefaultTitle(p.ASIN)
	}
	if p.Currency == "" {
		p.Currency = e.defaultCurrency
	}
	if p.Availability == "" {
		p.Availability = defaultAvailability
	}
}

// normalizePrice strips everything but digits and separators from a
// displayed price and normalizes the decimal comma to a period.
// "R$ 1.299,90" becomes "1.299.90"-free form "1299.90".
func normalizePrice(text string) string {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return ""
	}

	// Brazilian format: "." groups thousands, "," marks decimals
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	return cleaned
}

// validASIN reports whether id looks like a marketplace item id.
func validASIN(id string) bool {
	return asinPattern.MatchString(id)
}
