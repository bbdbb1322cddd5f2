package domain

import "time"

// Product is the canonical record produced by a resolution, keyed by ASIN.
// A later resolution of the same ASIN overwrites every other field.
type Product struct {
	ASIN         string   `json:"asin" bson:"asin"`
	Title        string   `json:"title" bson:"title"`
	Price        string   `json:"price,omitempty" bson:"price,omitempty"` // normalized decimal string, "" means unknown
	Currency     string   `json:"currency" bson:"currency"`
	ImageURL     string   `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	DetailURL    string   `json:"detailUrl,omitempty" bson:"product_url,omitempty"`
	AffiliateURL string   `json:"affiliateUrl" bson:"affiliate_url"`
	Rating       string   `json:"rating,omitempty" bson:"rating,omitempty"` // free text as shown on the page, e.g. "4,5 de 5 estrelas"
	Availability string   `json:"availability,omitempty" bson:"availability,omitempty"`
	Features     []string `json:"features,omitempty" bson:"features,omitempty"`
	CategoryID   int64    `json:"categoryId,omitempty" bson:"category_id,omitempty"`
}

// DefaultTitle is the title used when none could be extracted.
func DefaultTitle(asin string) string {
	return "Product " + asin
}

// Category groups search keywords under an optional browse node and
// drives batch resolution. Managed by the admin surface, read-only for
// the resolver.
type Category struct {
	ID           int64    `json:"id" bson:"id"`
	Name         string   `json:"name" bson:"name"`
	BrowseNodeID string   `json:"browseNodeId,omitempty" bson:"browse_node_id,omitempty"`
	Keywords     []string `json:"keywords" bson:"keywords"`
	Active       bool     `json:"active" bson:"active"`
}

// Credentials is the single active tuple used for API request signing
// and affiliate link generation. Updating replaces the whole tuple.
type Credentials struct {
	AccessKey   string `json:"accessKey" bson:"credential_id"`
	SecretKey   string `json:"secretKey" bson:"credential_secret"`
	PartnerTag  string `json:"partnerTag" bson:"associate_tag"`
	Marketplace string `json:"marketplace" bson:"marketplace"`
	Version     string `json:"version" bson:"version"`
}

// HasAPIKeys reports whether the tuple can sign API requests. Without
// both parts the resolver skips the API path and goes straight to the
// scraper.
func (c Credentials) HasAPIKeys() bool {
	return c.AccessKey != "" && c.SecretKey != ""
}

// SyncLogEntry is an append-only audit record written once per batch
// category resolution.
type SyncLogEntry struct {
	CategoryID   int64     `json:"categoryId" bson:"category_id"`
	ProductCount int       `json:"productCount" bson:"products_count"`
	SyncedAt     time.Time `json:"syncedAt" bson:"synced_at"`
}
