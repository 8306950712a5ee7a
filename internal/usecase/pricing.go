package usecase

import (
	"math"
	"strings"

	"github.com/lookscan/backend/internal/domain"
)

// country describes a supported shipping destination
type country struct {
	code            string
	name            string
	currency        string
	currencySymbol  string
	dutyRate        float64 // fraction of the base price
	shippingBaseUSD float64
}

// countries are the supported destinations with their duty rates and
// base international shipping costs.
var countries = map[string]country{
	"KR": {code: "KR", name: "South Korea", currency: "KRW", currencySymbol: "₩", dutyRate: 0.13, shippingBaseUSD: 25},
	"US": {code: "US", name: "United States", currency: "USD", currencySymbol: "$", dutyRate: 0.05, shippingBaseUSD: 0},
	"GB": {code: "GB", name: "United Kingdom", currency: "GBP", currencySymbol: "£", dutyRate: 0.20, shippingBaseUSD: 20},
	"JP": {code: "JP", name: "Japan", currency: "JPY", currencySymbol: "¥", dutyRate: 0.10, shippingBaseUSD: 22},
	"FR": {code: "FR", name: "France", currency: "EUR", currencySymbol: "€", dutyRate: 0.20, shippingBaseUSD: 18},
	"DE": {code: "DE", name: "Germany", currency: "EUR", currencySymbol: "€", dutyRate: 0.19, shippingBaseUSD: 18},
	"CN": {code: "CN", name: "China", currency: "CNY", currencySymbol: "¥", dutyRate: 0.25, shippingBaseUSD: 20},
	"AU": {code: "AU", name: "Australia", currency: "AUD", currencySymbol: "A$", dutyRate: 0.10, shippingBaseUSD: 30},
	"SG": {code: "SG", name: "Singapore", currency: "SGD", currencySymbol: "S$", dutyRate: 0.07, shippingBaseUSD: 18},
	"CA": {code: "CA", name: "Canada", currency: "CAD", currencySymbol: "C$", dutyRate: 0.12, shippingBaseUSD: 15},
}

// exchangeRates are indicative rates vs USD
var exchangeRates = map[string]float64{
	"USD": 1,
	"KRW": 1320,
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 149,
	"CNY": 7.24,
	"AUD": 1.53,
	"SGD": 1.34,
	"CAD": 1.36,
}

// EstimateLandedCost converts a USD listing price into a landed-cost
// estimate for the destination country. Domestic US orders carry no
// shipping. The destination is an explicit parameter; no ambient locale
// is read.
func EstimateLandedCost(amountUSD float64, countryCode string) (*domain.PriceBreakdown, error) {
	if amountUSD < 0 {
		return nil, domain.ErrInvalidRequest
	}

	dest, ok := countries[strings.ToUpper(countryCode)]
	if !ok {
		return nil, domain.ErrUnknownCountry
	}

	duty := math.Round(amountUSD * dest.dutyRate)

	shipping := dest.shippingBaseUSD
	if dest.code == "US" {
		shipping = 0
	}

	totalUSD := amountUSD + duty + shipping

	return &domain.PriceBreakdown{
		BaseUSD:        amountUSD,
		DutyUSD:        duty,
		ShippingUSD:    shipping,
		TotalUSD:       totalUSD,
		ConvertedTotal: math.Round(totalUSD * exchangeRates[dest.currency]),
		Currency:       dest.currency,
		CurrencySymbol: dest.currencySymbol,
	}, nil
}
