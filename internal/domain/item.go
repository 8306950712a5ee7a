package domain

// Category buckets used by the describer for identified fashion items
const (
	CategoryTops        = "Tops"
	CategoryOuterwear   = "Outerwear"
	CategoryBottoms     = "Bottoms"
	CategoryDresses     = "Dresses"
	CategoryShoes       = "Shoes"
	CategoryBags        = "Bags"
	CategoryAccessories = "Accessories"
	CategoryJewelry     = "Jewelry"
	CategoryEyewear     = "Eyewear"
	CategoryHeadwear    = "Headwear"
)

// Official stock status reported by the describer
const (
	StatusInStock        = "InStock"
	StatusSoldOut        = "SoldOut"
	StatusLimitedEdition = "LimitedEdition"
	StatusDiscontinued   = "Discontinued"
)

// CelebrityUnknown is the sentinel the describer uses when it cannot
// identify the person in the photo.
const CelebrityUnknown = "Unknown"

// ItemDescription is one fashion item identified in an uploaded image.
// Confidence and OriginalPrice default to 0 when the describer omits them;
// downstream stages must tolerate every other field being empty.
type ItemDescription struct {
	Brand             string   `json:"brand"`
	ProductName       string   `json:"productName"`
	SearchKeywords    string   `json:"searchKeywords,omitempty"`
	BlogSearchQueries []string `json:"blogSearchQueries,omitempty"`
	Category          string   `json:"category,omitempty"`
	Color             string   `json:"color,omitempty"`
	Material          string   `json:"material,omitempty"`
	HSCode            string   `json:"hsCode,omitempty"`
	HSDescription     string   `json:"hsDescription,omitempty"`
	OriginalPrice     float64  `json:"originalPrice"`
	OfficialStatus    string   `json:"officialStatus,omitempty"`
	Confidence        float64  `json:"confidence"`
	IsVintage         bool     `json:"isVintage"`
}

// DescribeResult is the normalized describer output for one image.
// CelebrityName is shared by every item identified in that image.
type DescribeResult struct {
	CelebrityName string            `json:"celebrityName"`
	Items         []ItemDescription `json:"items"`
}

// Candidate is a single listing returned by a search backend.
// Candidates without a thumbnail are discarded before ranking.
type Candidate struct {
	Title        string  `json:"title"`
	ThumbnailURL string  `json:"thumbnail"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	SourceName   string  `json:"source"`
	LinkURL      string  `json:"link"`
}

// Visual verification verdicts, prior to label mapping
const (
	VerdictMatch    = "MATCH"
	VerdictSimilar  = "SIMILAR"
	VerdictMismatch = "MISMATCH"
)

// Verification is the outcome of one visual-verification call.
type Verification struct {
	Score   float64 `json:"score"`
	Verdict string  `json:"verdict"`
}

// VerifiedCandidate is a Candidate augmented with its verification outcome.
type VerifiedCandidate struct {
	Candidate
	Verification
}

// Source kinds for a ResolutionResult
const (
	SourceGoogleShopping = "google_shopping"
	SourceResale         = "resale"
	SourceGoogleImages   = "google_images"
	SourceNone           = "none"
)

// User-facing match labels, ordered roughly by trust
const (
	LabelExactMatch     = "Exact Match"
	LabelBrandMatch     = "Brand Match"
	LabelSimilarStyle   = "Similar Style"
	LabelResalePreOwned = "Resale · Pre-owned"
	LabelInspiredBy     = "Inspired By"
	LabelNoMatch        = "No Match"
)

// Seller is one purchasable listing surfaced in a ResolutionResult.
type Seller struct {
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Link      string  `json:"link"`
	Thumbnail string  `json:"thumbnail"`
}

// ResolutionResult is the final pipeline output for one item. It is
// produced once and never mutated; a refresh means re-running the
// whole resolution.
type ResolutionResult struct {
	ImageURL     *string  `json:"imageUrl"`
	SourceKind   string   `json:"source"`
	ProductTitle string   `json:"productTitle"`
	Sellers      []Seller `json:"sellers"`
	MatchLabel   string   `json:"match_label"`
}

// ScanResult bundles the describer output with the per-item resolutions
// for one uploaded image. Results[i] corresponds to Items[i].
type ScanResult struct {
	CelebrityName string             `json:"celebrityName"`
	Items         []ItemDescription  `json:"items"`
	Results       []ResolutionResult `json:"results"`
}
