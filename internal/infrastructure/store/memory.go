package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/feedmanager/backend/internal/domain"
)

// In-memory store implementations, one per entity. They are
// thread-safe and back tests plus single-process deployments where
// nothing needs to survive a restart.

// ProductMemory implements domain.ProductStore over a map keyed on
// ASIN.
type ProductMemory struct {
	mutex    sync.RWMutex
	products map[string]domain.Product
	order    []string // upsert order, newest last
}

// NewProductMemory creates an empty product store.
func NewProductMemory() *ProductMemory {
	return &ProductMemory{
		products: make(map[string]domain.Product),
	}
}

// UpsertByASIN stores a product, replacing any previous record with the
// same ASIN. Last write wins; a repeat never duplicates.
func (s *ProductMemory) UpsertByASIN(ctx context.Context, product *domain.Product) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.products[product.ASIN]; !exists {
		s.order = append(s.order, product.ASIN)
	}
	s.products[product.ASIN] = *product
	return nil
}

// FindByASIN returns the stored product or domain.ErrProductNotFound.
func (s *ProductMemory) FindByASIN(ctx context.Context, asin string) (*domain.Product, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	product, exists := s.products[asin]
	if !exists {
		return nil, domain.ErrProductNotFound
	}
	return &product, nil
}

// List returns up to limit products, optionally filtered by category,
// newest upsert first. categoryID 0 means no filter.
func (s *ProductMemory) List(ctx context.Context, categoryID int64, limit int) ([]domain.Product, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	products := make([]domain.Product, 0, limit)
	for i := len(s.order) - 1; i >= 0 && len(products) < limit; i-- {
		product := s.products[s.order[i]]
		if categoryID != 0 && product.CategoryID != categoryID {
			continue
		}
		products = append(products, product)
	}
	return products, nil
}

// CategoryMemory implements domain.CategoryStore.
type CategoryMemory struct {
	mutex      sync.RWMutex
	categories map[int64]domain.Category
	nextID     int64
}

// NewCategoryMemory creates an empty category store.
func NewCategoryMemory() *CategoryMemory {
	return &CategoryMemory{
		categories: make(map[int64]domain.Category),
		nextID:     1,
	}
}

// GetByID returns a category or domain.ErrCategoryNotFound.
func (s *CategoryMemory) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	category, exists := s.categories[id]
	if !exists {
		return nil, domain.ErrCategoryNotFound
	}
	return &category, nil
}

// List returns categories sorted by name.
func (s *CategoryMemory) List(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	categories := make([]domain.Category, 0, len(s.categories))
	for _, category := range s.categories {
		if activeOnly && !category.Active {
			continue
		}
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

// Save inserts or updates a category, assigning an id on insert.
func (s *CategoryMemory) Save(ctx context.Context, category *domain.Category) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if category.ID == 0 {
		category.ID = s.nextID
		s.nextID++
	} else if category.ID >= s.nextID {
		s.nextID = category.ID + 1
	}
	s.categories[category.ID] = *category
	return nil
}

// Delete removes a category. Deleting an unknown id is a no-op.
func (s *CategoryMemory) Delete(ctx context.Context, id int64) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.categories, id)
	return nil
}

// SyncLogMemory implements domain.SyncLogStore as an append-only slice.
type SyncLogMemory struct {
	mutex   sync.RWMutex
	entries []domain.SyncLogEntry
}

// NewSyncLogMemory creates an empty sync log.
func NewSyncLogMemory() *SyncLogMemory {
	return &SyncLogMemory{}
}

// Append records one batch resolution run.
func (s *SyncLogMemory) Append(ctx context.Context, categoryID int64, count int, at time.Time) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.entries = append(s.entries, domain.SyncLogEntry{
		CategoryID:   categoryID,
		ProductCount: count,
		SyncedAt:     at,
	})
	return nil
}

// Recent returns the newest entries first.
func (s *SyncLogMemory) Recent(ctx context.Context, limit int) ([]domain.SyncLogEntry, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	entries := make([]domain.SyncLogEntry, 0, limit)
	for i := len(s.entries) - 1; i >= 0 && len(entries) < limit; i-- {
		entries = append(entries, s.entries[i])
	}
	return entries, nil
}

// CredentialMemory implements domain.CredentialStore holding the one
// active tuple.
type CredentialMemory struct {
	mutex       sync.RWMutex
	credentials *domain.Credentials
	seed        domain.Credentials
}

// NewCredentialMemory creates a credential store. Get returns the seed
// tuple until something is stored.
func NewCredentialMemory(seed domain.Credentials) *CredentialMemory {
	return &CredentialMemory{seed: seed}
}

// Get returns the active credential tuple.
func (s *CredentialMemory) Get(ctx context.Context) (*domain.Credentials, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.credentials != nil {
		creds := *s.credentials
		return &creds, nil
	}
	seed := s.seed
	return &seed, nil
}

// Update replaces the active credential tuple.
func (s *CredentialMemory) Update(ctx context.Context, credentials *domain.Credentials) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	creds := *credentials
	s.credentials = &creds
	return nil
}
