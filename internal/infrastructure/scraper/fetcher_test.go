package scraper

import (
	"compress/gzip"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestFetcher() *Fetcher {
	// A one-millisecond delay window keeps the throttle code running
	// without slowing the suite down.
	return NewFetcher(FetcherConfig{
		Timeout:      5 * time.Second,
		MaxRedirects: 3,
		MinDelay:     0,
		MaxDelay:     time.Millisecond,
		UserAgent:    "fetcher-test",
	})
}

func TestFetch_Success(t *testing.T) {
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		fmt.Fprint(w, "<html><body>resultado</body></html>")
	}))
	defer server.Close()

	body := newTestFetcher().Fetch(context.Background(), server.URL)

	assert.Equal(t, "<html><body>resultado</body></html>", body)
	assert.Equal(t, "fetcher-test", gotHeaders.Get("User-Agent"))
	assert.Equal(t, "pt-BR,pt;q=0.9", gotHeaders.Get("Accept-Language"))
	assert.Contains(t, gotHeaders.Get("Accept"), "text/html")
	assert.Equal(t, "gzip, deflate", gotHeaders.Get("Accept-Encoding"))
}

func TestFetch_GzipBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		fmt.Fprint(gz, "<html>comprimido</html>")
		gz.Close()
	}))
	defer server.Close()

	body := newTestFetcher().Fetch(context.Background(), server.URL)
	assert.Equal(t, "<html>comprimido</html>", body)
}

func TestFetch_NonOKStatus(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusServiceUnavailable, http.StatusTooManyRequests} {
		t.Run(fmt.Sprintf("status %d", status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "blocked", status)
			}))
			defer server.Close()

			assert.Empty(t, newTestFetcher().Fetch(context.Background(), server.URL))
		})
	}
}

func TestFetch_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	assert.Empty(t, newTestFetcher().Fetch(context.Background(), server.URL))
}

func TestFetch_InvalidURL(t *testing.T) {
	assert.Empty(t, newTestFetcher().Fetch(context.Background(), "://not-a-url"))
}

func TestFetch_RedirectCap(t *testing.T) {
	var server *httptest.Server
	hops := 0
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hops++
		http.Redirect(w, r, server.URL+fmt.Sprintf("/hop/%d", hops), http.StatusFound)
	}))
	defer server.Close()

	assert.Empty(t, newTestFetcher().Fetch(context.Background(), server.URL))
	assert.LessOrEqual(t, hops, 4)
}

func TestSearchURL(t *testing.T) {
	tests := []struct {
		name         string
		marketplace  string
		keyword      string
		browseNodeID string
		want         string
	}{
		{
			name:        "brazilian marketplace",
			marketplace: "www.amazon.com.br",
			keyword:     "echo dot",
			want:        "https://www.amazon.com.br/s?k=echo+dot",
		},
		{
			name:        "us marketplace",
			marketplace: "www.amazon.com",
			keyword:     "kindle",
			want:        "https://www.amazon.com/s?k=kindle",
		},
		{
			name:         "browse node filter",
			marketplace:  "www.amazon.com.br",
			keyword:      "fone",
			browseNodeID: "16243890011",
			want:         "https://www.amazon.com.br/s?k=fone&rh=n:16243890011",
		},
		{
			name:        "keyword needing escaping",
			marketplace: "www.amazon.com.br",
			keyword:     "cabo usb-c & adaptador",
			want:        "https://www.amazon.com.br/s?k=cabo+usb-c+%26+adaptador",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SearchURL(tt.marketplace, tt.keyword, tt.browseNodeID))
		})
	}
}
