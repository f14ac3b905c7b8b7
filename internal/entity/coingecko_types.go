package entity

// CoinGeckoQuote is one entry of a /simple/* response. USD is nil when the
// asset is known but has no USD quote.
type CoinGeckoQuote struct {
	USD *float64 `json:"usd"`
}

// SimplePriceResponse is keyed by lowercased contract address for
// /simple/token_price and by coin id for /simple/price.
type SimplePriceResponse map[string]CoinGeckoQuote

// CoinGeckoErrorResponse is the body CoinGecko sends on 4xx responses.
type CoinGeckoErrorResponse struct {
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
}
