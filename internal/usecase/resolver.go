package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/feedmanager/backend/internal/domain"
	"github.com/feedmanager/backend/internal/infrastructure/scraper"
)

// ResolverConfig holds configuration for the resolver.
type ResolverConfig struct {
	DefaultCurrency string
}

// Resolver turns keywords and ASINs into product records: API first,
// scraper fallback, affiliate link always attached.
type Resolver struct {
	credentials     domain.CredentialStore
	products        domain.ProductStore
	categories      domain.CategoryStore
	syncLogs        domain.SyncLogStore
	client          domain.SearchClient
	fetcher         domain.Fetcher
	extractor       domain.Extractor
	defaultCurrency string
}

// NewResolver creates a resolver with its collaborators.
func NewResolver(
	credentials domain.CredentialStore,
	products domain.ProductStore,
	categories domain.CategoryStore,
	syncLogs domain.SyncLogStore,
	client domain.SearchClient,
	fetcher domain.Fetcher,
	extractor domain.Extractor,
	config ResolverConfig,
) *Resolver {
	currency := config.DefaultCurrency
	if currency == "" {
		currency = "BRL"
	}

	return &Resolver{
		credentials:     credentials,
		products:        products,
		categories:      categories,
		syncLogs:        syncLogs,
		client:          client,
		fetcher:         fetcher,
		extractor:       extractor,
		defaultCurrency: currency,
	}
}

// ResolveByKeyword resolves a search keyword into product records.
// The signed API runs only when a key pair is configured; any API
// failure or empty result falls through to scraping exactly once. An
// empty result list is a valid outcome, not an error.
func (r *Resolver) ResolveByKeyword(ctx context.Context, keyword, browseNodeID string) ([]domain.Product, error) {
	creds, err := r.credentials.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}

	if creds.HasAPIKeys() {
		products, err := r.client.SearchItems(ctx, *creds, keyword, browseNodeID)
		if err != nil {
			// Fallback path, never surfaced to the caller
			log.Printf("[Resolver] API search for %q failed, falling back to scraper: %v", keyword, err)
		} else if len(products) > 0 {
			log.Printf("[Resolver] API returned %d products for %q", len(products), keyword)
			return r.normalize(products), nil
		}
	}

	log.Printf("[Resolver] scraping for %q", keyword)
	searchURL := scraper.SearchURL(creds.Marketplace, keyword, browseNodeID)
	html := r.fetcher.Fetch(ctx, searchURL)
	if html == "" {
		return nil, nil
	}

	products := r.extractor.Extract(html)
	for i := range products {
		affiliateURL, err := domain.GenerateAffiliateURL(products[i].ASIN, *creds)
		if err != nil {
			return nil, err
		}
		products[i].AffiliateURL = affiliateURL
	}

	log.Printf("[Resolver] scraper found %d products for %q", len(products), keyword)
	return r.normalize(products), nil
}

// ResolveByCategory resolves every keyword of a category sequentially,
// persists each record tagged with the category, and writes one sync
// log entry with the total. The sequential loop is deliberate: the
// fetcher's randomized delay throttles the request rate and concurrent
// fan-out would defeat it.
func (r *Resolver) ResolveByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	category, err := r.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	keywords := make([]string, 0, len(category.Keywords))
	for _, keyword := range category.Keywords {
		if trimmed := strings.TrimSpace(keyword); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	if len(keywords) == 0 {
		return nil, domain.ErrNoKeywordsConfigured
	}

	var resolved []domain.Product
	for _, keyword := range keywords {
		products, err := r.ResolveByKeyword(ctx, keyword, category.BrowseNodeID)
		if err != nil {
			return nil, err
		}

		for i := range products {
			products[i].CategoryID = categoryID
			if err := r.products.UpsertByASIN(ctx, &products[i]); err != nil {
				return nil, fmt.Errorf("persisting %s: %w", products[i].ASIN, err)
			}
		}
		resolved = append(resolved, products...)
	}

	if err := r.syncLogs.Append(ctx, categoryID, len(resolved), time.Now()); err != nil {
		return nil, fmt.Errorf("writing sync log: %w", err)
	}

	log.Printf("[Resolver] category %d synced, %d products", categoryID, len(resolved))
	return resolved, nil
}

// ResolveByASIN returns a record for a well-formed ASIN, never "not
// found": store hit first, then the API, and as a last resort a
// synthesized stub that is persisted like any other record.
func (r *Resolver) ResolveByASIN(ctx context.Context, asin string) (*domain.Product, error) {
	if product, err := r.products.FindByASIN(ctx, asin); err == nil {
		return product, nil
	}

	creds, err := r.credentials.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}

	if creds.HasAPIKeys() {
		products, err := r.client.GetItems(ctx, *creds, []string{asin})
		if err != nil {
			log.Printf("[Resolver] API lookup for %s failed: %v", asin, err)
		} else if len(products) > 0 {
			product := r.normalize(products[:1])[0]
			if err := r.products.UpsertByASIN(ctx, &product); err != nil {
				return nil, fmt.Errorf("persisting %s: %w", asin, err)
			}
			return &product, nil
		}
	}

	affiliateURL, err := domain.GenerateAffiliateURL(asin, *creds)
	if err != nil {
		return nil, err
	}

	stub := domain.Product{
		ASIN:         asin,
		Title:        domain.DefaultTitle(asin),
		Currency:     r.defaultCurrency,
		DetailURL:    domain.DetailPageURL(asin, *creds),
		AffiliateURL: affiliateURL,
	}
	if err := r.products.UpsertByASIN(ctx, &stub); err != nil {
		return nil, fmt.Errorf("persisting %s: %w", asin, err)
	}

	log.Printf("[Resolver] synthesized stub for %s", asin)
	return &stub, nil
}

// normalize fills the cross-source defaults every returned record
// carries.
func (r *Resolver) normalize(products []domain.Product) []domain.Product {
	for i := range products {
		if products[i].Currency == "" {
			products[i].Currency = r.defaultCurrency
		}
	}
	return products
}
