package paapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedmanager/backend/internal/domain"
)

func testCredentials() domain.Credentials {
	return domain.Credentials{
		AccessKey:   "test-access-key",
		SecretKey:   "test-secret-key",
		PartnerTag:  "mytag-20",
		Marketplace: "www.amazon.com.br",
	}
}

const searchFixture = `{
	"SearchResult": {
		"Items": [
			{
				"ASIN": "B08N5WRWNW",
				"DetailPageURL": "https://www.amazon.com.br/dp/B08N5WRWNW",
				"ItemInfo": {
					"Title": {"DisplayValue": "Echo Dot 4a Geracao"},
					"Features": {"DisplayValues": ["Alexa", "Bluetooth"]}
				},
				"Images": {
					"Primary": {
						"Large": {"URL": "https://m.media-amazon.com/images/I/large.jpg"},
						"Medium": {"URL": "https://m.media-amazon.com/images/I/medium.jpg"}
					}
				},
				"Offers": {
					"Listings": [
						{
							"Price": {"Amount": 379.05, "Currency": "BRL"},
							"Availability": {"Message": "Em estoque"}
						}
					]
				}
			}
		]
	}
}`

func TestSearchItems_Success(t *testing.T) {
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, searchItemsPath, r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json; charset=utf-8", r.Header.Get("Content-Type"))
		assert.Equal(t, "amz-1.0", r.Header.Get("Content-Encoding"))
		assert.Equal(t, targetPrefix+"SearchItems", r.Header.Get("X-Amz-Target"))
		assert.NotEmpty(t, r.Header.Get("X-Amz-Date"))
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "AWS4-HMAC-SHA256 "),
			"Authorization = %s", r.Header.Get("Authorization"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchFixture))
	}))
	defer server.Close()

	client := NewClient("us-east-1", server.URL)

	products, err := client.SearchItems(context.Background(), testCredentials(), "echo dot", "")
	require.NoError(t, err)
	require.Len(t, products, 1)

	product := products[0]
	assert.Equal(t, "B08N5WRWNW", product.ASIN)
	assert.Equal(t, "Echo Dot 4a Geracao", product.Title)
	assert.Equal(t, "379.05", product.Price)
	assert.Equal(t, "BRL", product.Currency)
	assert.Equal(t, "https://m.media-amazon.com/images/I/large.jpg", product.ImageURL)
	assert.Equal(t, "https://www.amazon.com.br/dp/B08N5WRWNW", product.DetailURL)
	assert.Equal(t, "https://www.amazon.com.br/dp/B08N5WRWNW?tag=mytag-20", product.AffiliateURL)
	assert.Equal(t, []string{"Alexa", "Bluetooth"}, product.Features)
	assert.Equal(t, "Em estoque", product.Availability)

	// Request payload carries the partner identity and keyword
	assert.Equal(t, "mytag-20", gotBody["PartnerTag"])
	assert.Equal(t, "Associates", gotBody["PartnerType"])
	assert.Equal(t, "www.amazon.com.br", gotBody["Marketplace"])
	assert.Equal(t, "echo dot", gotBody["Keywords"])
	_, hasBrowseNode := gotBody["BrowseNodeId"]
	assert.False(t, hasBrowseNode, "BrowseNodeId must be omitted when empty")
}

func TestSearchItems_BrowseNodeForwarded(t *testing.T) {
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"SearchResult":{"Items":[]}}`))
	}))
	defer server.Close()

	client := NewClient("us-east-1", server.URL)

	_, err := client.SearchItems(context.Background(), testCredentials(), "notebook", "16209062011")
	require.NoError(t, err)
	assert.Equal(t, "16209062011", gotBody["BrowseNodeId"])
}

func TestSearchItems_MissingCredentials(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	client := NewClient("us-east-1", server.URL)

	creds := testCredentials()
	creds.SecretKey = ""

	_, err := client.SearchItems(context.Background(), creds, "notebook", "")
	assert.ErrorIs(t, err, domain.ErrCredentialsMissing)
	assert.Zero(t, requests, "no request may be sent without credentials")
}

func TestSearchItems_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"__type":"TooManyRequestsException"}`))
	}))
	defer server.Close()

	client := NewClient("us-east-1", server.URL)

	_, err := client.SearchItems(context.Background(), testCredentials(), "notebook", "")
	require.ErrorIs(t, err, domain.ErrAPIRequestFailed)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "TooManyRequestsException")
}

func TestSearchItems_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewClient("us-east-1", server.URL)

	_, err := client.SearchItems(context.Background(), testCredentials(), "notebook", "")
	assert.ErrorIs(t, err, domain.ErrAPIRequestFailed)
}

func TestGetItems_Success(t *testing.T) {
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, getItemsPath, r.URL.Path)
		assert.Equal(t, targetPrefix+"GetItems", r.Header.Get("X-Amz-Target"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Write([]byte(`{
			"ItemsResult": {
				"Items": [
					{"ASIN": "B08N5WRWNW", "ItemInfo": {"Title": {"DisplayValue": "Echo Dot"}}}
				]
			}
		}`))
	}))
	defer server.Close()

	client := NewClient("us-east-1", server.URL)

	products, err := client.GetItems(context.Background(), testCredentials(), []string{"B08N5WRWNW"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "B08N5WRWNW", products[0].ASIN)
	assert.Equal(t, "Echo Dot", products[0].Title)

	assert.Equal(t, []interface{}{"B08N5WRWNW"}, gotBody["ItemIds"])
}

func TestGetItems_NoASINs(t *testing.T) {
	client := NewClient("us-east-1", "http://unused.invalid")

	_, err := client.GetItems(context.Background(), testCredentials(), nil)
	assert.ErrorIs(t, err, domain.ErrAPIRequestFailed)
}
