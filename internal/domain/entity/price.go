package entity

// TokenPrice is a spot price in USD.
type TokenPrice struct {
	USD float64 `json:"usd"`
}

// PriceQuote maps a lowercased contract address (or NativeContractAddress) to its price.
// Missing entries mean "no price".
type PriceQuote map[string]TokenPrice

// USD returns the price for address, or 0 when none was found.
func (q PriceQuote) USD(address string) float64 {
	if q == nil {
		return 0
	}
	return q[NormalizeAddress(address)].USD
}
