package domain

import (
	"fmt"
	"strings"
)

// GenerateAffiliateURL builds the canonical purchase link for an ASIN
// carrying the configured associate tag. Pure and deterministic: the
// same (asin, credentials) pair always yields the same URL.
func GenerateAffiliateURL(asin string, creds Credentials) (string, error) {
	if creds.PartnerTag == "" {
		return "", ErrConfigurationError
	}

	return fmt.Sprintf("https://www.amazon.%s/dp/%s?tag=%s", MarketplaceTLD(creds.Marketplace), asin, creds.PartnerTag), nil
}

// DetailPageURL builds the canonical product page URL for an ASIN on
// the configured marketplace.
func DetailPageURL(asin string, creds Credentials) string {
	return fmt.Sprintf("https://www.amazon.%s/dp/%s", MarketplaceTLD(creds.Marketplace), asin)
}

// MarketplaceTLD picks the regional top-level domain. This is a plain
// substring check on the configured marketplace, not locale
// negotiation: "www.amazon.com.br" selects the Brazilian site,
// anything else falls back to the default .com.
func MarketplaceTLD(marketplace string) string {
	if strings.Contains(marketplace, ".br") {
		return "com.br"
	}
	return "com"
}
