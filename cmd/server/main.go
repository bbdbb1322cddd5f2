package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/feedmanager/backend/config"
	httpDelivery "github.com/feedmanager/backend/internal/delivery/http"
	"github.com/feedmanager/backend/internal/domain"
	"github.com/feedmanager/backend/internal/infrastructure/paapi"
	"github.com/feedmanager/backend/internal/infrastructure/scraper"
	"github.com/feedmanager/backend/internal/infrastructure/store"
	"github.com/feedmanager/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Feed Manager Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Marketplace: %s", cfg.Marketplace.Domain)
	log.Printf("Storage: %s", cfg.Storage.Type)

	seed := domain.Credentials{
		AccessKey:   cfg.Amazon.AccessKey,
		SecretKey:   cfg.Amazon.SecretKey,
		PartnerTag:  cfg.Amazon.PartnerTag,
		Marketplace: cfg.Marketplace.Domain,
		Version:     cfg.Amazon.Version,
	}
	if seed.HasAPIKeys() {
		log.Printf("Product API configured (key: %s...)", seed.AccessKey[:min(8, len(seed.AccessKey))])
	} else {
		log.Printf("WARNING: Product API keys not configured - resolution will rely on scraping only")
	}

	// Initialize store backend
	var (
		products    domain.ProductStore
		categories  domain.CategoryStore
		syncLogs    domain.SyncLogStore
		credentials domain.CredentialStore
	)

	switch cfg.Storage.Type {
	case "mongo":
		client, err := store.Connect(context.Background(), cfg.Storage.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to mongo: %v", err)
		}
		db := client.Database(cfg.Storage.MongoDB)
		products = store.NewProductMongo(db)
		categories = store.NewCategoryMongo(db)
		syncLogs = store.NewSyncLogMongo(db)
		credentials = store.NewCredentialMongo(db, seed)
	default:
		products = store.NewProductMemory()
		categories = store.NewCategoryMemory()
		syncLogs = store.NewSyncLogMemory()
		credentials = store.NewCredentialMemory(seed)
	}

	// Initialize infrastructure dependencies
	apiClient := paapi.NewClient(cfg.Amazon.Region, "")

	fetcher := scraper.NewFetcher(scraper.FetcherConfig{
		Timeout:      cfg.Scraper.Timeout,
		MaxRedirects: cfg.Scraper.MaxRedirects,
		MinDelay:     cfg.Scraper.MinDelay,
		MaxDelay:     cfg.Scraper.MaxDelay,
		UserAgent:    cfg.Scraper.UserAgent,
	})

	extractor := scraper.NewExtractor(scraper.ExtractorConfig{
		Marketplace:     cfg.Marketplace.Domain,
		DefaultCurrency: cfg.Marketplace.DefaultCurrency,
		MaxResults:      cfg.Scraper.MaxResults,
	})

	// Initialize usecase layer
	resolver := usecase.NewResolver(
		credentials,
		products,
		categories,
		syncLogs,
		apiClient,
		fetcher,
		extractor,
		usecase.ResolverConfig{
			DefaultCurrency: cfg.Marketplace.DefaultCurrency,
		},
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(resolver, products, categories, syncLogs, credentials)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
