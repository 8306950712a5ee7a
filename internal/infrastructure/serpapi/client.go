package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/lookscan/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Search engines exposed by the backend
const (
	engineShopping = "google_shopping"
	engineWeb      = "google"
	engineImages   = "google_images"
)

// Client handles communication with the SerpAPI search backend
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new SerpAPI client
func NewClient(apiKey, baseURL string) *Client {
	// Keep a comfortable margin under the plan's hourly search quota
	limiter := rate.NewLimiter(rate.Limit(2), 10) // burst of 10 requests

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// SetDebug enables verbose request/response logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the sleep duration before the given retry attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// SearchShopping searches the commerce backend for purchasable listings.
// Sponsored entries and listings without a thumbnail are dropped.
func (c *Client) SearchShopping(ctx context.Context, query string, limit int) ([]domain.Candidate, error) {
	raw, err := c.search(ctx, engineShopping, query, limit)
	if err != nil {
		return nil, err
	}

	candidates := mapShoppingResults(raw.ShoppingResults)
	if c.debug {
		log.Printf("[SERP] shopping %q -> %d listings (%d usable)", query, len(raw.ShoppingResults), len(candidates))
	}
	return candidates, nil
}

// SearchWeb runs a general web search and returns organic results.
func (c *Client) SearchWeb(ctx context.Context, query string, limit int) ([]domain.WebResult, error) {
	raw, err := c.search(ctx, engineWeb, query, limit)
	if err != nil {
		return nil, err
	}

	results := mapOrganicResults(raw.OrganicResults)
	if c.debug {
		log.Printf("[SERP] web %q -> %d organic results", query, len(results))
	}
	return results, nil
}

// SearchImages runs a generic image search.
func (c *Client) SearchImages(ctx context.Context, query string, limit int) ([]domain.ImageResult, error) {
	raw, err := c.search(ctx, engineImages, query, limit)
	if err != nil {
		return nil, err
	}

	results := mapImageResults(raw.ImagesResults)
	if c.debug {
		log.Printf("[SERP] images %q -> %d results", query, len(results))
	}
	return results, nil
}

// search executes one engine query with rate limiting and retries.
// Rate-limit and quota signals from the provider are not retried; they
// surface as distinct sentinel errors.
func (c *Client) search(ctx context.Context, engine, query string, limit int) (*searchResponse, error) {
	endpoint := fmt.Sprintf("%s/search.json", c.baseURL)
	params := url.Values{}
	params.Add("engine", engine)
	params.Add("q", query)
	params.Add("api_key", c.apiKey)
	if limit > 0 {
		params.Add("num", strconv.Itoa(limit))
	}

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		// Wait for rate limiter
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			log.Printf("[SERP] request error (attempt %d): %v", attempt, err)
			lastErr = err
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			var searchResp searchResponse
			if err := json.Unmarshal(body, &searchResp); err != nil {
				log.Printf("[SERP] JSON decode error: %v", err)
				return nil, fmt.Errorf("failed to decode response: %w", err)
			}
			return &searchResp, nil
		case http.StatusTooManyRequests:
			return nil, domain.ErrRateLimited
		case http.StatusPaymentRequired:
			return nil, domain.ErrQuotaExhausted
		default:
			log.Printf("[SERP] API error (attempt %d) - Status: %d, Body: %s", attempt, resp.StatusCode, string(body))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrSearchAPIFailure, resp.StatusCode)
			time.Sleep(exponentialBackoff(attempt))
		}
	}

	log.Printf("[SERP] all retries failed for %s query: %q", engine, query)
	return nil, lastErr
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Lookscan/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchAPIFailure, err)
	}

	return resp, nil
}
