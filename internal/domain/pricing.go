package domain

// PriceBreakdown is a landed-cost estimate for one listing price,
// computed for an explicit destination country. Duty and shipping are
// estimated in USD; the total is also converted to the destination
// currency.
type PriceBreakdown struct {
	BaseUSD        float64 `json:"base"`
	DutyUSD        float64 `json:"duty"`
	ShippingUSD    float64 `json:"shipping"`
	TotalUSD       float64 `json:"totalUsd"`
	ConvertedTotal float64 `json:"convertedTotal"`
	Currency       string  `json:"currency"`
	CurrencySymbol string  `json:"currencySymbol"`
}
