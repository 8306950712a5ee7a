package domain

import "context"

// ShoppingSearcher queries a commerce search backend for purchasable listings.
type ShoppingSearcher interface {
	SearchShopping(ctx context.Context, query string, limit int) ([]Candidate, error)
}

// WebSearcher queries a general web search backend. Used for resale
// site-scoped queries and the blog pre-search.
type WebSearcher interface {
	SearchWeb(ctx context.Context, query string, limit int) ([]WebResult, error)
}

// ImageSearcher queries a generic image search backend, the last-resort
// fallback when no purchasable listing is found.
type ImageSearcher interface {
	SearchImages(ctx context.Context, query string, limit int) ([]ImageResult, error)
}

// WebResult is one organic result from general web search.
type WebResult struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Snippet   string `json:"snippet,omitempty"`
}

// ImageResult is one result from generic image search.
type ImageResult struct {
	Thumbnail string `json:"thumbnail,omitempty"`
	Original  string `json:"original,omitempty"`
	Title     string `json:"title,omitempty"`
}

// Describer identifies fashion items in an image via a vision model.
type Describer interface {
	DescribeImage(ctx context.Context, imageBase64, contextHint string) (*DescribeResult, error)
}

// Verifier scores visual similarity between a candidate listing image
// and the textual description of the target item.
type Verifier interface {
	VerifyImage(ctx context.Context, candidateImageURL, description string) (Verification, error)
}
