package usecase

import (
	"context"
	"log"
	"sync"

	"github.com/lookscan/backend/internal/domain"
)

// ScanService orchestrates a full image scan: describe the image, then
// resolve every identified item independently and concurrently.
type ScanService struct {
	describer domain.Describer
	resolver  *Resolver
}

// NewScanService creates a scan service. The describer may be nil when
// the vision backend is not configured; Scan then fails with a
// configuration error.
func NewScanService(describer domain.Describer, resolver *Resolver) *ScanService {
	return &ScanService{
		describer: describer,
		resolver:  resolver,
	}
}

// Scan identifies the items in a base64-encoded image and resolves each
// of them. Item resolutions share no state and run concurrently; a
// failed resolution degrades to a NoMatch result for that item, while
// provider limit signals abort the scan.
func (s *ScanService) Scan(ctx context.Context, imageBase64, contextHint string) (*domain.ScanResult, error) {
	if imageBase64 == "" {
		return nil, domain.ErrInvalidRequest
	}
	if s.describer == nil {
		return nil, domain.ErrMissingCredential
	}

	described, err := s.describer.DescribeImage(ctx, imageBase64, contextHint)
	if err != nil {
		return nil, err
	}

	results := make([]domain.ResolutionResult, len(described.Items))
	errs := make([]error, len(described.Items))

	var wg sync.WaitGroup
	for i := range described.Items {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			item := described.Items[idx]
			resolution, err := s.resolver.Resolve(ctx, &item, contextHint, described.CelebrityName)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx] = *resolution
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err == nil {
			continue
		}
		if isProviderLimit(err) {
			return nil, err
		}
		log.Printf("[SCAN] item %d (%q) failed to resolve, degrading to NoMatch: %v",
			i, described.Items[i].ProductName, err)
		results[i] = domain.ResolutionResult{
			ImageURL:   nil,
			SourceKind: domain.SourceNone,
			Sellers:    []domain.Seller{},
			MatchLabel: domain.LabelNoMatch,
		}
	}

	return &domain.ScanResult{
		CelebrityName: described.CelebrityName,
		Items:         described.Items,
		Results:       results,
	}, nil
}
