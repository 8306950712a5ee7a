package usecase

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/lookscan/backend/internal/domain"
)

// ResolverConfig holds configuration for the resolution pipeline
type ResolverConfig struct {
	MaxVerified        int
	MatchThreshold     float64
	SellerThreshold    float64
	EnableDebugLogging bool
}

// Resolver runs the full per-item pipeline: plan queries, aggregate
// candidates, verify visually and assign a match label. Resolution is a
// pure function of its inputs and the search backends' state at call
// time; nothing is memoized between calls.
type Resolver struct {
	planner            *QueryPlanner
	aggregator         *CandidateAggregator
	verifier           domain.Verifier
	images             domain.ImageSearcher
	web                domain.WebSearcher
	maxVerified        int
	matchThreshold     float64
	sellerThreshold    float64
	enableDebugLogging bool
}

// NewResolver creates a resolver. The verifier may be nil, in which case
// labeling falls back to text matching.
func NewResolver(
	planner *QueryPlanner,
	aggregator *CandidateAggregator,
	verifier domain.Verifier,
	images domain.ImageSearcher,
	web domain.WebSearcher,
	config ResolverConfig,
) *Resolver {
	maxVerified := config.MaxVerified
	if maxVerified <= 0 {
		maxVerified = 5
	}

	matchThreshold := config.MatchThreshold
	if matchThreshold <= 0 {
		matchThreshold = 55
	}

	sellerThreshold := config.SellerThreshold
	if sellerThreshold <= 0 {
		sellerThreshold = 45
	}

	return &Resolver{
		planner:            planner,
		aggregator:         aggregator,
		verifier:           verifier,
		images:             images,
		web:                web,
		maxVerified:        maxVerified,
		matchThreshold:     matchThreshold,
		sellerThreshold:    sellerThreshold,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Resolve runs the pipeline for one identified item. Only configuration
// errors and provider limit signals propagate; every other fault degrades
// to a smaller but valid result, down to the terminal NoMatch state.
func (r *Resolver) Resolve(
	ctx context.Context,
	item *domain.ItemDescription,
	contextHint, celebrityName string,
) (*domain.ResolutionResult, error) {
	if item == nil || (item.Brand == "" && item.ProductName == "" && item.SearchKeywords == "") {
		return nil, domain.ErrInvalidRequest
	}

	// Best-effort blog pre-search to confirm the product identity. The
	// model-provided name is kept either way.
	r.confirmIdentity(ctx, item)

	variants := r.planner.PlanQueries(item, contextHint, celebrityName)
	description := variants[0]

	commerce, resale, err := r.aggregator.Aggregate(ctx, variants, item.Brand, item.ProductName, item.IsVintage)
	if err != nil {
		return nil, err
	}

	if len(commerce) > 0 {
		if r.verifier != nil {
			return r.resolveVerified(ctx, item, commerce, description), nil
		}
		return r.resolveByText(item, commerce), nil
	}

	if len(resale) > 0 {
		return resaleResult(item, resale), nil
	}

	return r.resolveByImageSearch(ctx, item)
}

// confirmIdentity runs up to two of the describer's blog queries against
// web search, looking for a brand mention that corroborates the product.
// Failures only log; this step never alters the pipeline outcome.
func (r *Resolver) confirmIdentity(ctx context.Context, item *domain.ItemDescription) {
	if len(item.BlogSearchQueries) == 0 || item.Brand == "" {
		return
	}

	queries := item.BlogSearchQueries
	if len(queries) > 2 {
		queries = queries[:2]
	}

	brandLower := strings.ToLower(item.Brand)
	for _, query := range queries {
		results, err := r.web.SearchWeb(ctx, query, 5)
		if err != nil {
			log.Printf("[RESOLVE] blog pre-search failed, skipping: %v", err)
			return
		}
		for i, result := range results {
			if i == 3 {
				break
			}
			snippet := strings.ToLower(result.Title + " " + result.Snippet)
			if strings.Contains(snippet, brandLower) {
				if r.enableDebugLogging {
					log.Printf("[RESOLVE] blog confirmation found: %q", result.Title)
				}
				return
			}
		}
	}
}

// resolveVerified scores the top candidates visually and labels the
// result. A verification branch that fails contributes the fallback
// verdict instead of failing the resolution.
func (r *Resolver) resolveVerified(
	ctx context.Context,
	item *domain.ItemDescription,
	commerce []domain.Candidate,
	description string,
) *domain.ResolutionResult {
	batch := commerce
	if len(batch) > r.maxVerified {
		batch = batch[:r.maxVerified]
	}

	verified := make([]domain.VerifiedCandidate, len(batch))
	var wg sync.WaitGroup
	for i, candidate := range batch {
		wg.Add(1)
		go func(idx int, c domain.Candidate) {
			defer wg.Done()
			verification, err := r.verifier.VerifyImage(ctx, c.ThumbnailURL, description)
			if err != nil {
				log.Printf("[RESOLVE] verification failed for %q, using fallback: %v", c.SourceName, err)
				verification = domain.Verification{Score: 45, Verdict: domain.VerdictSimilar}
			}
			verified[idx] = domain.VerifiedCandidate{Candidate: c, Verification: verification}
		}(i, candidate)
	}
	wg.Wait()

	sort.SliceStable(verified, func(i, j int) bool {
		return verified[i].Score > verified[j].Score
	})

	if r.enableDebugLogging {
		for _, v := range verified {
			log.Printf("[RESOLVE] %q -> %.0f (%s)", v.SourceName, v.Score, v.Verdict)
		}
	}

	top := verified[0]
	if top.Score < r.matchThreshold {
		// Verification is too uncertain to trust: label by text instead
		return r.resolveByText(item, commerce[:1])
	}

	var sellers []domain.Seller
	for _, v := range verified {
		if v.Score >= r.sellerThreshold {
			sellers = append(sellers, domain.Seller{
				Name:      v.SourceName,
				Price:     v.Price,
				Currency:  v.Currency,
				Link:      v.LinkURL,
				Thumbnail: v.ThumbnailURL,
			})
		}
	}

	imageURL := top.ThumbnailURL
	return &domain.ResolutionResult{
		ImageURL:     &imageURL,
		SourceKind:   domain.SourceGoogleShopping,
		ProductTitle: titleOrFallback(top.Title, item),
		Sellers:      sellers,
		MatchLabel:   verdictToLabel(top.Verdict),
	}
}

// resolveByText assigns a label from case-insensitive substring matching
// between candidate title and brand/product tokens, without AI
// verification. The top-ranked candidate is the sole seller.
func (r *Resolver) resolveByText(item *domain.ItemDescription, commerce []domain.Candidate) *domain.ResolutionResult {
	best := commerce[0]

	titleLower := strings.ToLower(best.Title)
	brandLower := strings.ToLower(item.Brand)
	productLower := strings.ToLower(item.ProductName)

	label := domain.LabelSimilarStyle
	if brandLower != "" && strings.Contains(titleLower, brandLower) {
		label = domain.LabelBrandMatch
		if firstToken := strings.Fields(productLower); len(firstToken) > 0 && strings.Contains(titleLower, firstToken[0]) {
			label = domain.LabelExactMatch
		}
	}

	imageURL := best.ThumbnailURL
	return &domain.ResolutionResult{
		ImageURL:     &imageURL,
		SourceKind:   domain.SourceGoogleShopping,
		ProductTitle: titleOrFallback(best.Title, item),
		Sellers: []domain.Seller{{
			Name:      best.SourceName,
			Price:     best.Price,
			Currency:  best.Currency,
			Link:      best.LinkURL,
			Thumbnail: best.ThumbnailURL,
		}},
		MatchLabel: label,
	}
}

// resaleResult builds the pre-owned result from resale candidates.
func resaleResult(item *domain.ItemDescription, resale []domain.Candidate) *domain.ResolutionResult {
	best := resale[0]

	sellers := make([]domain.Seller, 0, len(resale))
	for _, c := range resale {
		sellers = append(sellers, domain.Seller{
			Name:      c.SourceName,
			Price:     0,
			Currency:  "USD",
			Link:      c.LinkURL,
			Thumbnail: c.ThumbnailURL,
		})
	}

	imageURL := best.ThumbnailURL
	return &domain.ResolutionResult{
		ImageURL:     &imageURL,
		SourceKind:   domain.SourceResale,
		ProductTitle: titleOrFallback(best.Title, item),
		Sellers:      sellers,
		MatchLabel:   domain.LabelResalePreOwned,
	}
}

// resolveByImageSearch is the last-resort fallback: a single image-only
// search with no purchase links. An empty result here is the terminal
// NoMatch state, not an error.
func (r *Resolver) resolveByImageSearch(ctx context.Context, item *domain.ItemDescription) (*domain.ResolutionResult, error) {
	query := joinNonEmpty(item.Brand, item.ProductName, "white background product shot")
	images, err := r.images.SearchImages(ctx, query, 5)
	if err != nil {
		if isProviderLimit(err) {
			return nil, err
		}
		log.Printf("[RESOLVE] image search fallback failed: %v", err)
		images = nil
	}

	if len(images) > 0 {
		best := images[0]
		imageURL := best.Thumbnail
		if imageURL == "" {
			imageURL = best.Original
		}
		return &domain.ResolutionResult{
			ImageURL:     &imageURL,
			SourceKind:   domain.SourceGoogleImages,
			ProductTitle: titleOrFallback(best.Title, item),
			Sellers:      []domain.Seller{},
			MatchLabel:   domain.LabelSimilarStyle,
		}, nil
	}

	return &domain.ResolutionResult{
		ImageURL:   nil,
		SourceKind: domain.SourceNone,
		Sellers:    []domain.Seller{},
		MatchLabel: domain.LabelNoMatch,
	}, nil
}

// verdictToLabel maps a visual verdict to the user-facing trust label
func verdictToLabel(verdict string) string {
	switch verdict {
	case domain.VerdictMatch:
		return domain.LabelExactMatch
	case domain.VerdictSimilar:
		return domain.LabelSimilarStyle
	default:
		return domain.LabelInspiredBy
	}
}

// titleOrFallback prefers the listing title, falling back to the item's
// brand and product name.
func titleOrFallback(title string, item *domain.ItemDescription) string {
	if title != "" {
		return title
	}
	return joinNonEmpty(item.Brand, item.ProductName)
}
