package usecase

import (
	"log"
	"strings"

	"github.com/lookscan/backend/internal/domain"
)

// QueryPlanner turns one identified item into an ordered list of search
// query variants. Insertion order encodes priority: most specific first.
type QueryPlanner struct {
	enableDebugLogging bool
}

// NewQueryPlanner creates a query planner
func NewQueryPlanner(enableDebugLogging bool) *QueryPlanner {
	return &QueryPlanner{enableDebugLogging: enableDebugLogging}
}

// PlanQueries builds the variant list for an item. The order is fixed:
//  1. AI-curated search keywords (most specific)
//  2. brand + product + color (generic fallback, always present)
//  3. celebrity-qualified variants when the celebrity is known
//  4. context-hint variant when a hint was supplied
//  5. archive/vintage variants for past-season items
//
// Variants are distinct and non-empty; duplicates keep their first position.
func (p *QueryPlanner) PlanQueries(item *domain.ItemDescription, contextHint, celebrityName string) []string {
	var variants []string
	seen := make(map[string]bool)

	add := func(query string) {
		query = strings.TrimSpace(multiSpaceReplacer(query))
		if query == "" || seen[query] {
			return
		}
		seen[query] = true
		variants = append(variants, query)
	}

	// 1. Precise search keywords from the describer
	add(item.SearchKeywords)

	// 2. Generic fallback, always appended
	add(joinNonEmpty(item.Brand, item.ProductName, item.Color))

	// 3. Celebrity-based queries for fashion blog/archive matching
	if celebrityName != "" && celebrityName != domain.CelebrityUnknown {
		add(joinNonEmpty(celebrityName, item.Brand, item.ProductName))
		add(joinNonEmpty(celebrityName, "outfit", item.Brand, item.Category))
	}

	// 4. Context hint integration (e.g. an airport-look phrase)
	if contextHint != "" {
		add(joinNonEmpty(contextHint, item.Brand, item.ProductName))
	}

	// 5. Archive/vintage variants for past-season items
	if item.IsVintage {
		add(joinNonEmpty(item.Brand, item.ProductName, "archive"))
		add(joinNonEmpty(item.Brand, item.ProductName, "vintage used"))
	}

	if p.enableDebugLogging {
		log.Printf("[PLAN] %q %q -> %d variants: %v", item.Brand, item.ProductName, len(variants), variants)
	}

	return variants
}

// joinNonEmpty joins the non-empty parts with single spaces
func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			kept = append(kept, strings.TrimSpace(part))
		}
	}
	return strings.Join(kept, " ")
}

// multiSpaceReplacer collapses runs of whitespace into single spaces
func multiSpaceReplacer(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
