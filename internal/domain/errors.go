package domain

import "errors"

var (
	// ErrCredentialsMissing is returned when the API key pair is not
	// configured. The resolver treats it as "scrape instead", not as a
	// failure.
	ErrCredentialsMissing = errors.New("API credentials not configured")

	// ErrAPIRequestFailed is returned on transport errors, signing
	// problems or non-200 responses from the product API. Caught by the
	// resolver and turned into a scraper fallback, never surfaced.
	ErrAPIRequestFailed = errors.New("product API request failed")

	// ErrConfigurationError is returned when the associate tag is empty
	// and no affiliate link can be generated.
	ErrConfigurationError = errors.New("associate tag not configured")

	// ErrCategoryNotFound is returned when a batch resolution references
	// an unknown category.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrNoKeywordsConfigured is returned when a category has no
	// keywords to resolve.
	ErrNoKeywordsConfigured = errors.New("no keywords configured for category")

	// ErrProductNotFound is returned by stores when an ASIN has not been
	// persisted yet.
	ErrProductNotFound = errors.New("product not found")
)
