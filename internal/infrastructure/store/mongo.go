package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/feedmanager/backend/internal/domain"
)

// Mongo-backed store implementations. One type per collection,
// per-call timeouts, upserts keyed on the external id so repeated
// resolutions overwrite instead of duplicating.

// Connect opens a client and pings the deployment.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}
	return client, nil
}

// ProductMongo implements domain.ProductStore on a "products"
// collection with a unique asin key.
type ProductMongo struct {
	collection *mongo.Collection
}

// NewProductMongo wraps the products collection.
func NewProductMongo(db *mongo.Database) *ProductMongo {
	return &ProductMongo{collection: db.Collection("products")}
}

// UpsertByASIN replaces the record for the ASIN, inserting when absent.
func (s *ProductMongo) UpsertByASIN(ctx context.Context, product *domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"asin": product.ASIN}
	update := bson.M{
		"$set":         product,
		"$currentDate": bson.M{"updated_at": true},
	}

	_, err := s.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// FindByASIN returns the stored product or domain.ErrProductNotFound.
func (s *ProductMongo) FindByASIN(ctx context.Context, asin string) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var product domain.Product
	err := s.collection.FindOne(ctx, bson.M{"asin": asin}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// List returns up to limit products, newest update first. categoryID 0
// means no filter.
func (s *ProductMongo) List(ctx context.Context, categoryID int64, limit int) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if categoryID != 0 {
		filter["category_id"] = categoryID
	}

	opts := options.Find().
		SetSort(bson.M{"updated_at": -1}).
		SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CategoryMongo implements domain.CategoryStore on a "categories"
// collection. Numeric ids come from a counters document so the admin
// surface keeps the original small integer keys.
type CategoryMongo struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

// NewCategoryMongo wraps the categories collection.
func NewCategoryMongo(db *mongo.Database) *CategoryMongo {
	return &CategoryMongo{
		collection: db.Collection("categories"),
		counters:   db.Collection("counters"),
	}
}

// GetByID returns a category or domain.ErrCategoryNotFound.
func (s *CategoryMongo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var category domain.Category
	err := s.collection.FindOne(ctx, bson.M{"id": id}).Decode(&category)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// List returns categories sorted by name.
func (s *CategoryMongo) List(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}

	cursor, err := s.collection.Find(ctx, filter, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []domain.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Save inserts or updates a category, assigning the next sequence id on
// insert.
func (s *CategoryMongo) Save(ctx context.Context, category *domain.Category) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if category.ID == 0 {
		id, err := s.nextID(ctx)
		if err != nil {
			return err
		}
		category.ID = id
	}

	filter := bson.M{"id": category.ID}
	update := bson.M{"$set": category}
	_, err := s.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// Delete removes a category. Deleting an unknown id is a no-op.
func (s *CategoryMongo) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.collection.DeleteOne(ctx, bson.M{"id": id})
	return err
}

// nextID bumps and returns the category sequence counter.
func (s *CategoryMongo) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Sequence int64 `bson:"sequence"`
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "categories"},
		bson.M{"$inc": bson.M{"sequence": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Sequence, nil
}

// SyncLogMongo implements domain.SyncLogStore on a "sync_logs"
// collection. Entries are insert-only.
type SyncLogMongo struct {
	collection *mongo.Collection
}

// NewSyncLogMongo wraps the sync_logs collection.
func NewSyncLogMongo(db *mongo.Database) *SyncLogMongo {
	return &SyncLogMongo{collection: db.Collection("sync_logs")}
}

// Append records one batch resolution run.
func (s *SyncLogMongo) Append(ctx context.Context, categoryID int64, count int, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.collection.InsertOne(ctx, domain.SyncLogEntry{
		CategoryID:   categoryID,
		ProductCount: count,
		SyncedAt:     at,
	})
	return err
}

// Recent returns the newest entries first.
func (s *SyncLogMongo) Recent(ctx context.Context, limit int) ([]domain.SyncLogEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.M{"synced_at": -1}).
		SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []domain.SyncLogEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CredentialMongo implements domain.CredentialStore on a "credentials"
// collection. The newest document wins; Get seeds the configured
// default tuple when the collection is empty.
type CredentialMongo struct {
	collection *mongo.Collection
	seed       domain.Credentials
}

// NewCredentialMongo wraps the credentials collection.
func NewCredentialMongo(db *mongo.Database, seed domain.Credentials) *CredentialMongo {
	return &CredentialMongo{
		collection: db.Collection("credentials"),
		seed:       seed,
	}
}

// Get returns the active tuple, inserting the seed on first use.
func (s *CredentialMongo) Get(ctx context.Context) (*domain.Credentials, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	opts := options.FindOne().SetSort(bson.M{"_id": -1})

	var credentials domain.Credentials
	err := s.collection.FindOne(ctx, bson.M{}, opts).Decode(&credentials)
	if err == nil {
		return &credentials, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	if _, err := s.collection.InsertOne(ctx, s.seed); err != nil {
		return nil, err
	}
	seed := s.seed
	return &seed, nil
}

// Update appends a new tuple; the newest one becomes active.
func (s *CredentialMongo) Update(ctx context.Context, credentials *domain.Credentials) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.collection.InsertOne(ctx, credentials)
	return err
}
