package domain

import (
	"context"
	"time"
)

// ProductStore persists resolved products. Upsert is idempotent and
// last-write-wins keyed on ASIN; resolving the same ASIN twice leaves
// exactly one stored record.
type ProductStore interface {
	UpsertByASIN(ctx context.Context, product *Product) error
	FindByASIN(ctx context.Context, asin string) (*Product, error)
	List(ctx context.Context, categoryID int64, limit int) ([]Product, error)
}

// CategoryStore manages keyword categories. The resolver only reads;
// writes come from the admin facade.
type CategoryStore interface {
	GetByID(ctx context.Context, id int64) (*Category, error)
	List(ctx context.Context, activeOnly bool) ([]Category, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id int64) error
}

// SyncLogStore records batch resolution runs. Entries are append-only.
type SyncLogStore interface {
	Append(ctx context.Context, categoryID int64, count int, at time.Time) error
	Recent(ctx context.Context, limit int) ([]SyncLogEntry, error)
}

// CredentialStore holds the single active credential tuple. Get returns
// a seeded default tuple when none has been configured.
type CredentialStore interface {
	Get(ctx context.Context) (*Credentials, error)
	Update(ctx context.Context, credentials *Credentials) error
}

// SearchClient is the authenticated product API surface consumed by the
// resolver.
type SearchClient interface {
	SearchItems(ctx context.Context, creds Credentials, keyword, browseNodeID string) ([]Product, error)
	GetItems(ctx context.Context, creds Credentials, asins []string) ([]Product, error)
}

// Fetcher retrieves raw search-result markup. An empty string means "no
// content" regardless of cause; fetching never errors past this
// boundary.
type Fetcher interface {
	Fetch(ctx context.Context, url string) string
}

// Extractor turns raw markup into products, in page order. Empty input
// yields zero records, not an error.
type Extractor interface {
	Extract(html string) []Product
}
