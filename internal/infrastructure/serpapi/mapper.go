package serpapi

import "github.com/lookscan/backend/internal/domain"

// searchResponse covers the fields we consume across the three engines.
// SerpAPI returns one of the result arrays depending on the engine.
type searchResponse struct {
	ShoppingResults []shoppingResult `json:"shopping_results"`
	OrganicResults  []organicResult  `json:"organic_results"`
	ImagesResults   []imageResult    `json:"images_results"`
}

type shoppingResult struct {
	Title          string  `json:"title"`
	Thumbnail      string  `json:"thumbnail"`
	ExtractedPrice float64 `json:"extracted_price"`
	Currency       string  `json:"currency"`
	Source         string  `json:"source"`
	Seller         string  `json:"seller"`
	Link           string  `json:"link"`
	ProductLink    string  `json:"product_link"`
	Ad             bool    `json:"ad"`
	IsAd           bool    `json:"is_ad"`
}

type organicResult struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Thumbnail string `json:"thumbnail"`
	Favicon   string `json:"favicon"`
	Snippet   string `json:"snippet"`
}

type imageResult struct {
	Thumbnail string `json:"thumbnail"`
	Original  string `json:"original"`
	Title     string `json:"title"`
}

// mapShoppingResults converts raw shopping listings to domain Candidates.
// Sponsored entries and listings without a thumbnail cannot be ranked or
// verified, so they are dropped here.
func mapShoppingResults(results []shoppingResult) []domain.Candidate {
	candidates := make([]domain.Candidate, 0, len(results))
	for _, r := range results {
		if r.Ad || r.IsAd {
			continue
		}
		if r.Thumbnail == "" {
			continue
		}

		source := r.Source
		if source == "" {
			source = r.Seller
		}
		if source == "" {
			source = "Unknown"
		}

		currency := r.Currency
		if currency == "" {
			currency = "USD"
		}

		link := r.Link
		if link == "" {
			link = r.ProductLink
		}

		candidates = append(candidates, domain.Candidate{
			Title:        r.Title,
			ThumbnailURL: r.Thumbnail,
			Price:        r.ExtractedPrice,
			Currency:     currency,
			SourceName:   source,
			LinkURL:      link,
		})
	}
	return candidates
}

// mapOrganicResults converts raw organic results, falling back to the
// favicon when no thumbnail is present (common for resale listings).
func mapOrganicResults(results []organicResult) []domain.WebResult {
	mapped := make([]domain.WebResult, 0, len(results))
	for _, r := range results {
		thumbnail := r.Thumbnail
		if thumbnail == "" {
			thumbnail = r.Favicon
		}
		mapped = append(mapped, domain.WebResult{
			Title:     r.Title,
			Link:      r.Link,
			Thumbnail: thumbnail,
			Snippet:   r.Snippet,
		})
	}
	return mapped
}

// mapImageResults converts raw image results, preferring the thumbnail URL.
func mapImageResults(results []imageResult) []domain.ImageResult {
	mapped := make([]domain.ImageResult, 0, len(results))
	for _, r := range results {
		mapped = append(mapped, domain.ImageResult{
			Thumbnail: r.Thumbnail,
			Original:  r.Original,
			Title:     r.Title,
		})
	}
	return mapped
}
