package serpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lookscan/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	client := NewClient("test-api-key", "https://api.example.com")

	assert.NotNil(t, client)
	assert.Equal(t, "test-api-key", client.apiKey)
	assert.Equal(t, "https://api.example.com", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
	assert.False(t, client.debug)
}

func TestSetDebug(t *testing.T) {
	client := NewClient("test-api-key", "https://api.example.com")

	assert.False(t, client.debug)

	client.SetDebug(true)
	assert.True(t, client.debug)

	client.SetDebug(false)
	assert.False(t, client.debug)
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1000 * time.Millisecond},
		{3, 2000 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			result := exponentialBackoff(tt.attempt)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSearchShopping_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "google_shopping", r.URL.Query().Get("engine"))
		assert.Equal(t, "jacquemus knit top", r.URL.Query().Get("q"))
		assert.Equal(t, "test-api-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "8", r.URL.Query().Get("num"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"shopping_results": [
				{"title": "Knit Top", "thumbnail": "https://img/1", "extracted_price": 450.0, "currency": "USD", "source": "SSENSE", "link": "https://ssense.example.com/1"},
				{"title": "Sponsored Top", "thumbnail": "https://img/2", "source": "Ads R Us", "link": "https://ads.example.com", "ad": true},
				{"title": "No Image Top", "source": "Shop", "link": "https://shop.example.com"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL)
	ctx := context.Background()

	candidates, err := client.SearchShopping(ctx, "jacquemus knit top", 8)

	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Knit Top", candidates[0].Title)
	assert.Equal(t, "SSENSE", candidates[0].SourceName)
	assert.Equal(t, 450.0, candidates[0].Price)
}

func TestSearchShopping_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL)

	_, err := client.SearchShopping(context.Background(), "query", 8)

	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestSearchShopping_QuotaExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL)

	_, err := client.SearchShopping(context.Background(), "query", 8)

	assert.ErrorIs(t, err, domain.ErrQuotaExhausted)
}

func TestSearchShopping_RetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"shopping_results": [{"title": "T", "thumbnail": "https://img/1", "source": "Shop"}]}`))
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL)

	candidates, err := client.SearchShopping(context.Background(), "query", 8)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Len(t, candidates, 1)
}

func TestSearchShopping_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL)

	_, err := client.SearchShopping(context.Background(), "query", 8)

	assert.Error(t, err)
}

func TestSearchWeb_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "google", r.URL.Query().Get("engine"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"organic_results": [
				{"title": "Listing", "link": "https://grailed.example.com/1", "thumbnail": "https://img/1", "snippet": "Jacquemus top"},
				{"title": "Favicon Only", "link": "https://vestiaire.example.com/2", "favicon": "https://favicon/2"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL)

	results, err := client.SearchWeb(context.Background(), "query site:grailed.com", 3)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "https://img/1", results[0].Thumbnail)
	// Favicon stands in for a missing thumbnail
	assert.Equal(t, "https://favicon/2", results[1].Thumbnail)
}

func TestSearchImages_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "google_images", r.URL.Query().Get("engine"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"images_results": [
				{"thumbnail": "https://img/thumb", "original": "https://img/full", "title": "Product shot"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL)

	results, err := client.SearchImages(context.Background(), "query", 5)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "https://img/thumb", results[0].Thumbnail)
	assert.Equal(t, "https://img/full", results[0].Original)
}

func TestSearch_UnreachableBackend(t *testing.T) {
	client := NewClient("test-api-key", "http://127.0.0.1:1")

	_, err := client.SearchShopping(context.Background(), "query", 8)

	assert.ErrorIs(t, err, domain.ErrSearchAPIFailure)
}
