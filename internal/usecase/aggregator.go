package usecase

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/lookscan/backend/internal/domain"
)

// Ranking tiers for candidate sources
const (
	tierOfficialBrand     = 2
	tierPreferredRetailer = 1
	tierOther             = 0
)

// preferredSources are curated luxury/resale retailers that outrank
// unknown sellers but stay below the brand's own storefront.
var preferredSources = map[string]bool{
	"ssense":         true,
	"mytheresa":      true,
	"farfetch":       true,
	"net-a-porter":   true,
	"matchesfashion": true,
	"nordstrom":      true,
	"selfridges":     true,
}

// resaleMarketplace is one site-scoped resale search target.
type resaleMarketplace struct {
	name   string
	domain string
}

// resaleMarketplaces are searched in this fixed order when commerce
// results are thin or the item is vintage.
var resaleMarketplaces = []resaleMarketplace{
	{name: "Grailed", domain: "grailed.com"},
	{name: "Vestiaire Collective", domain: "vestiairecollective.com"},
	{name: "The RealReal", domain: "therealreal.com"},
}

const (
	resaleResultsPerSite  = 2
	minCommerceCandidates = 3
)

// AggregatorConfig holds configuration for the candidate aggregator
type AggregatorConfig struct {
	MaxQueryFanOut     int
	MaxCandidates      int
	EnableDebugLogging bool
}

// CandidateAggregator resolves query variants into a deduplicated, ranked
// list of purchasable candidates, with a resale fallback when commerce
// search is thin.
type CandidateAggregator struct {
	shopping           domain.ShoppingSearcher
	web                domain.WebSearcher
	maxQueryFanOut     int
	maxCandidates      int
	enableDebugLogging bool
}

// NewCandidateAggregator creates an aggregator with the given backends
func NewCandidateAggregator(shopping domain.ShoppingSearcher, web domain.WebSearcher, config AggregatorConfig) *CandidateAggregator {
	fanOut := config.MaxQueryFanOut
	if fanOut <= 0 {
		fanOut = 3
	}

	maxCandidates := config.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = 8
	}

	return &CandidateAggregator{
		shopping:           shopping,
		web:                web,
		maxQueryFanOut:     fanOut,
		maxCandidates:      maxCandidates,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Aggregate fans out the first variants in parallel, then filters, ranks
// and deduplicates the listings. It returns commerce candidates ranked
// best-first and, when warranted, resale candidates in marketplace order.
//
// A failed branch contributes zero candidates; only provider rate-limit
// and quota signals abort the aggregation.
func (a *CandidateAggregator) Aggregate(
	ctx context.Context,
	variants []string,
	brand, productName string,
	isVintage bool,
) ([]domain.Candidate, []domain.Candidate, error) {
	if len(variants) == 0 {
		return nil, nil, domain.ErrInvalidRequest
	}

	queries := variants
	if len(queries) > a.maxQueryFanOut {
		queries = queries[:a.maxQueryFanOut]
	}

	collected, err := a.fanOutShopping(ctx, queries)
	if err != nil {
		return nil, nil, err
	}

	ranked := rankCandidates(collected, brand)
	unique := dedupeBySource(ranked, a.maxCandidates)

	if a.enableDebugLogging {
		log.Printf("[AGGREGATE] %d raw -> %d unique candidates for %q", len(collected), len(unique), brand)
	}

	var resale []domain.Candidate
	if isVintage || len(unique) < minCommerceCandidates {
		resale, err = a.searchResale(ctx, brand, productName)
		if err != nil {
			return nil, nil, err
		}
		if a.enableDebugLogging {
			log.Printf("[AGGREGATE] found %d resale listings for %q", len(resale), brand)
		}
	}

	return unique, resale, nil
}

// fanOutShopping issues the queries in parallel. Results are merged in
// query order regardless of completion order, so the downstream ranking
// tie-break stays deterministic.
func (a *CandidateAggregator) fanOutShopping(ctx context.Context, queries []string) ([]domain.Candidate, error) {
	perQuery := make([][]domain.Candidate, len(queries))
	errs := make([]error, len(queries))

	var wg sync.WaitGroup
	for i, query := range queries {
		wg.Add(1)
		go func(idx int, q string) {
			defer wg.Done()
			candidates, err := a.shopping.SearchShopping(ctx, q, 8)
			if err != nil {
				errs[idx] = err
				return
			}
			perQuery[idx] = candidates
		}(i, query)
	}
	wg.Wait()

	var collected []domain.Candidate
	for i, candidates := range perQuery {
		if errs[i] != nil {
			if isProviderLimit(errs[i]) {
				return nil, errs[i]
			}
			log.Printf("[AGGREGATE] shopping query %q failed, skipping: %v", queries[i], errs[i])
			continue
		}
		for _, c := range candidates {
			// Cannot verify or display a candidate without an image
			if c.ThumbnailURL == "" {
				continue
			}
			collected = append(collected, c)
		}
	}

	return collected, nil
}

// searchResale runs the site-scoped marketplace queries in parallel and
// keeps up to two image-bearing results per marketplace, in the fixed
// marketplace order. Resale prices are not extractable from snippets, so
// every resale candidate carries price 0.
func (a *CandidateAggregator) searchResale(ctx context.Context, brand, productName string) ([]domain.Candidate, error) {
	base := joinNonEmpty(brand, productName)
	if base == "" {
		return nil, nil
	}

	perSite := make([][]domain.Candidate, len(resaleMarketplaces))
	errs := make([]error, len(resaleMarketplaces))

	var wg sync.WaitGroup
	for i, marketplace := range resaleMarketplaces {
		wg.Add(1)
		go func(idx int, m resaleMarketplace) {
			defer wg.Done()
			results, err := a.web.SearchWeb(ctx, base+" site:"+m.domain, 3)
			if err != nil {
				errs[idx] = err
				return
			}

			var kept []domain.Candidate
			for _, r := range results {
				if len(kept) == resaleResultsPerSite {
					break
				}
				if r.Thumbnail == "" {
					continue
				}
				kept = append(kept, domain.Candidate{
					Title:        r.Title,
					ThumbnailURL: r.Thumbnail,
					Price:        0,
					Currency:     "USD",
					SourceName:   m.name,
					LinkURL:      r.Link,
				})
			}
			perSite[idx] = kept
		}(i, marketplace)
	}
	wg.Wait()

	var resale []domain.Candidate
	for i := range perSite {
		if errs[i] != nil {
			if isProviderLimit(errs[i]) {
				return nil, errs[i]
			}
			log.Printf("[AGGREGATE] resale search on %s failed, skipping: %v", resaleMarketplaces[i].name, errs[i])
			continue
		}
		resale = append(resale, perSite[i]...)
	}

	return resale, nil
}

// rankCandidates stable-sorts listings by source tier: the brand's own
// storefront first, then curated retailers, then everything else. Ties
// preserve discovery order.
func rankCandidates(candidates []domain.Candidate, brand string) []domain.Candidate {
	ranked := make([]domain.Candidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		return sourceTier(ranked[i].SourceName, brand) > sourceTier(ranked[j].SourceName, brand)
	})

	return ranked
}

// sourceTier buckets a source name into a coarse ranking tier
func sourceTier(source, brand string) int {
	sourceLower := strings.ToLower(source)
	if brand != "" && strings.Contains(sourceLower, strings.ToLower(brand)) {
		return tierOfficialBrand
	}
	if preferredSources[sourceLower] {
		return tierPreferredRetailer
	}
	return tierOther
}

// dedupeBySource keeps the first (highest-ranked) listing per source,
// case-insensitive, truncated to the candidate cap.
func dedupeBySource(candidates []domain.Candidate, max int) []domain.Candidate {
	seen := make(map[string]bool)
	var unique []domain.Candidate
	for _, c := range candidates {
		key := strings.ToLower(c.SourceName)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, c)
		if len(unique) == max {
			break
		}
	}
	return unique
}

// isProviderLimit reports whether an error is a rate-limit or quota
// signal that must surface to the caller instead of degrading silently.
func isProviderLimit(err error) bool {
	return errors.Is(err, domain.ErrRateLimited) || errors.Is(err, domain.ErrQuotaExhausted)
}
