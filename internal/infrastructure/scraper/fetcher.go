package scraper

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/feedmanager/backend/internal/domain"
)

// FetcherConfig tunes the HTML fetcher.
type FetcherConfig struct {
	Timeout      time.Duration
	MaxRedirects int
	MinDelay     time.Duration
	MaxDelay     time.Duration
	UserAgent    string
}

// Fetcher issues browser-mimicking GETs against public search pages.
// It implements domain.Fetcher: any non-200 status, transport error or
// empty body collapses into "no content" and nothing escapes as an
// error.
type Fetcher struct {
	client    *http.Client
	minDelay  time.Duration
	maxDelay  time.Duration
	userAgent string
}

// NewFetcher creates a fetcher with the given tuning. Zero values fall
// back to 30s timeout, 3 redirects and a 0.5-1.5s delay window.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRedirects == 0 {
		cfg.MaxRedirects = 3
	}
	if cfg.MaxDelay == 0 {
		cfg.MinDelay = 500 * time.Millisecond
		cfg.MaxDelay = 1500 * time.Millisecond
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", cfg.MaxRedirects)
			}
			return nil
		},
	}

	return &Fetcher{
		client:    client,
		minDelay:  cfg.MinDelay,
		maxDelay:  cfg.MaxDelay,
		userAgent: cfg.UserAgent,
	}
}

// Fetch retrieves raw markup from url, or "" when anything goes wrong.
// A randomized delay runs before each request to keep the request rate
// below what trips automated-client detection.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) string {
	f.sleep(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		log.Printf("[Scraper] invalid URL %q: %v", rawURL, err)
		return ""
	}
	f.setBrowserHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		log.Printf("[Scraper] fetch %s failed: %v", rawURL, err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Scraper] fetch %s -> status %d", rawURL, resp.StatusCode)
		return ""
	}

	// Setting Accept-Encoding by hand turns off the transport's
	// transparent decompression, so gzip bodies must be unwrapped here.
	reader := io.Reader(resp.Body)
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			log.Printf("[Scraper] fetch %s gzip error: %v", rawURL, err)
			return ""
		}
		defer gz.Close()
		reader = gz
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		log.Printf("[Scraper] fetch %s read error: %v", rawURL, err)
		return ""
	}

	return string(body)
}

// setBrowserHeaders sets a realistic desktop browser header set.
func (f *Fetcher) setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Cache-Control", "no-cache")
}

// sleep waits a random duration inside the configured window, bailing
// early if the context gets cancelled.
func (f *Fetcher) sleep(ctx context.Context) {
	delay := f.minDelay
	if window := f.maxDelay - f.minDelay; window > 0 {
		delay += time.Duration(rand.Int63n(int64(window)))
	}
	if delay <= 0 {
		return
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// SearchURL builds the public search-results URL for a keyword and an
// optional browse-node filter.
func SearchURL(marketplace, keyword, browseNodeID string) string {
	base := fmt.Sprintf("https://www.amazon.%s/s?k=%s", domain.MarketplaceTLD(marketplace), url.QueryEscape(keyword))
	if browseNodeID != "" {
		base += "&rh=n:" + browseNodeID
	}
	return base
}
