package paapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/feedmanager/backend/internal/domain"
	"golang.org/x/time/rate"
)

const (
	searchItemsPath = "/paapi5/searchitems"
	getItemsPath    = "/paapi5/getitems"
	targetPrefix    = "com.amazon.paapi5.v1.ProductAdvertisingAPIv1."

	// defaultItemCount is how many items a keyword search requests.
	defaultItemCount = 10

	// maxErrorBody caps how much of an upstream error body is kept in
	// logs and error messages.
	maxErrorBody = 512
)

// searchResources is the Resources list sent with SearchItems requests.
var searchResources = []string{
	"Images.Primary.Large",
	"Images.Primary.Medium",
	"ItemInfo.Title",
	"ItemInfo.Features",
	"ItemInfo.ProductInfo",
	"Offers.Listings.Price",
	"Offers.Listings.Availability.Message",
	"Offers.Listings.SavingBasis",
}

// getResources is the Resources list sent with GetItems requests.
var getResources = []string{
	"Images.Primary.Large",
	"ItemInfo.Title",
	"ItemInfo.Features",
	"ItemInfo.ProductInfo",
	"Offers.Listings.Price",
	"Offers.Listings.Availability.Message",
}

// Client talks to the Product Advertising API with SigV4-signed
// requests. It implements domain.SearchClient.
type Client struct {
	httpClient  *http.Client
	region      string
	baseURL     string // overrides the marketplace host when set (tests)
	rateLimiter *rate.Limiter
}

// NewClient creates a new Product Advertising API client. An empty
// baseURL means requests go to the marketplace host from the
// credential tuple.
func NewClient(region, baseURL string) *Client {
	// PA-API grants roughly 1 request/sec to new associate accounts
	limiter := rate.NewLimiter(rate.Limit(1), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		region:      region,
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// SearchItems performs an authenticated keyword search. It fails with
// domain.ErrCredentialsMissing before any I/O when the key pair is
// absent, and with domain.ErrAPIRequestFailed on transport errors or
// non-200 responses.
func (c *Client) SearchItems(ctx context.Context, creds domain.Credentials, keyword, browseNodeID string) ([]domain.Product, error) {
	payload := map[string]interface{}{
		"PartnerTag":  creds.PartnerTag,
		"PartnerType": "Associates",
		"Marketplace": creds.Marketplace,
		"Keywords":    keyword,
		"ItemCount":   defaultItemCount,
		"Resources":   searchResources,
	}
	if browseNodeID != "" {
		payload["BrowseNodeId"] = browseNodeID
	}

	body, err := c.doRequest(ctx, creds, searchItemsPath, "SearchItems", payload)
	if err != nil {
		return nil, err
	}

	var resp searchItemsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", domain.ErrAPIRequestFailed, err)
	}

	return mapItems(resp.SearchResult.Items, creds)
}

// GetItems fetches full records for the given ASINs.
func (c *Client) GetItems(ctx context.Context, creds domain.Credentials, asins []string) ([]domain.Product, error) {
	if len(asins) == 0 {
		return nil, fmt.Errorf("%w: no ASINs given", domain.ErrAPIRequestFailed)
	}

	payload := map[string]interface{}{
		"PartnerTag":  creds.PartnerTag,
		"PartnerType": "Associates",
		"Marketplace": creds.Marketplace,
		"ItemIds":     asins,
		"Resources":   getResources,
	}

	body, err := c.doRequest(ctx, creds, getItemsPath, "GetItems", payload)
	if err != nil {
		return nil, err
	}

	var resp getItemsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", domain.ErrAPIRequestFailed, err)
	}

	return mapItems(resp.ItemsResult.Items, creds)
}

// doRequest signs and sends one API call and returns the raw 200 body.
func (c *Client) doRequest(ctx context.Context, creds domain.Credentials, path, operation string, payload map[string]interface{}) ([]byte, error) {
	if !creds.HasAPIKeys() {
		return nil, domain.ErrCredentialsMissing
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrAPIRequestFailed, err)
	}

	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding payload: %v", domain.ErrAPIRequestFailed, err)
	}

	base := c.baseURL
	if base == "" {
		base = "https://" + creds.Marketplace
	}
	reqURL := base + path

	host := creds.Marketplace
	if parsed, err := url.Parse(base); err == nil && parsed.Host != "" {
		host = parsed.Host
	}

	now := time.Now().UTC()
	amzDate := now.Format("20060102T150405Z")
	date := now.Format("20060102")

	headers := map[string]string{
		"Content-Type":     "application/json; charset=utf-8",
		"Content-Encoding": "amz-1.0",
		"X-Amz-Date":       amzDate,
		"X-Amz-Target":     targetPrefix + operation,
		"Host":             host,
	}

	authorization := signRequest(creds.AccessKey, creds.SecretKey, c.region,
		http.MethodPost, path, string(requestBody), headers, date, amzDate)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(requestBody))
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", domain.ErrAPIRequestFailed, err)
	}
	for name, value := range headers {
		if strings.EqualFold(name, "Host") {
			req.Host = value
			continue
		}
		req.Header.Set(name, value)
	}
	req.Header.Set("Authorization", authorization)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[PAAPI] %s request error: %v", operation, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrAPIRequestFailed, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Printf("[PAAPI] %s %s -> status %d, body: %s", operation, reqURL, resp.StatusCode, truncate(body, maxErrorBody))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrAPIRequestFailed, resp.StatusCode, truncate(body, maxErrorBody))
	}

	return body, nil
}

func truncate(body []byte, limit int) string {
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
