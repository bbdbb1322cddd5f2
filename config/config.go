package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Marketplace MarketplaceConfig
	Amazon      AmazonConfig
	Scraper     ScraperConfig
	Storage     StorageConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MarketplaceConfig holds marketplace selection and defaults
type MarketplaceConfig struct {
	Domain          string `mapstructure:"domain"`
	DefaultCurrency string `mapstructure:"default_currency"`
}

// AmazonConfig holds the seed credential tuple for the product API.
// The active tuple lives in the credential store; these values seed it
// on first start.
type AmazonConfig struct {
	AccessKey  string `mapstructure:"access_key"`
	SecretKey  string `mapstructure:"secret_key"`
	PartnerTag string `mapstructure:"partner_tag"`
	Region     string `mapstructure:"region"`
	Version    string `mapstructure:"version"`
}

// ScraperConfig holds fetcher and extractor tuning
type ScraperConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRedirects int           `mapstructure:"max_redirects"`
	MinDelay     time.Duration `mapstructure:"min_delay"`
	MaxDelay     time.Duration `mapstructure:"max_delay"`
	MaxResults   int           `mapstructure:"max_results"`
	UserAgent    string        `mapstructure:"user_agent"`
}

// StorageConfig selects the store backend
type StorageConfig struct {
	Type     string `mapstructure:"type"` // "memory" or "mongo"
	MongoURI string `mapstructure:"mongo_uri"`
	MongoDB  string `mapstructure:"mongo_db"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/feedmanager/")

	// Environment variable settings
	v.SetEnvPrefix("FEEDMANAGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Marketplace defaults
	v.SetDefault("marketplace.domain", "www.amazon.com.br")
	v.SetDefault("marketplace.default_currency", "BRL")

	// Amazon API defaults. The key tuple defaults to empty so the
	// resolver falls back to scraping until credentials are configured;
	// registering the keys keeps the env overrides visible to Unmarshal.
	v.SetDefault("amazon.access_key", "")
	v.SetDefault("amazon.secret_key", "")
	v.SetDefault("amazon.partner_tag", "")
	v.SetDefault("amazon.region", "us-east-1")
	v.SetDefault("amazon.version", "2.1")

	// Scraper defaults
	v.SetDefault("scraper.timeout", "30s")
	v.SetDefault("scraper.max_redirects", 3)
	v.SetDefault("scraper.min_delay", "500ms")
	v.SetDefault("scraper.max_delay", "1500ms")
	v.SetDefault("scraper.max_results", 20)
	v.SetDefault("scraper.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	// Storage defaults
	v.SetDefault("storage.type", "memory")
	v.SetDefault("storage.mongo_uri", "")
	v.SetDefault("storage.mongo_db", "amazon_feed")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Storage.Type != "memory" && config.Storage.Type != "mongo" {
		return fmt.Errorf("storage type must be 'memory' or 'mongo', got: %s", config.Storage.Type)
	}

	if config.Storage.Type == "mongo" && config.Storage.MongoURI == "" {
		return fmt.Errorf("Mongo URI is required when storage type is 'mongo'")
	}

	if config.Scraper.MinDelay > config.Scraper.MaxDelay {
		return fmt.Errorf("scraper min_delay must not exceed max_delay")
	}

	if config.Scraper.MaxResults <= 0 {
		return fmt.Errorf("scraper max_results must be positive")
	}

	return nil
}
