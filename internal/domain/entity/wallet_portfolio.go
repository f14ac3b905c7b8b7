package entity

import "time"

// Portfolio is the aggregated view of a wallet.
type Portfolio struct {
	Address     string         `json:"address"`
	TotalValue  string         `json:"totalValue"`
	Tokens      []TokenBalance `json:"tokens"`
	LastUpdated time.Time      `json:"lastUpdated"`
}

// TokenBalance is one enriched holding. Balance, PriceUSD and ValueUSD are
// fixed-point strings (4, 2 and 2 decimals); RawBalance is the hex quantity as discovered.
type TokenBalance struct {
	ContractAddress string             `json:"contractAddress"`
	Symbol          string             `json:"symbol"`
	Name            string             `json:"name"`
	Balance         string             `json:"balance"`
	RawBalance      string             `json:"rawBalance"`
	Decimals        uint8              `json:"decimals"`
	Logo            *string            `json:"logo"`
	PriceUSD        string             `json:"priceUsd"`
	ValueUSD        string             `json:"valueUsd"`
	Verification    VerificationResult `json:"verification"`
}

// PortfolioOptions control discovery and filtering for one request.
type PortfolioOptions struct {
	MaxTokens           int
	IncludeZeroBalances bool
	IncludeNative       bool
}

// EmptyPortfolio is returned when discovery finds no holdings at all.
func EmptyPortfolio(address string, now time.Time) *Portfolio {
	return &Portfolio{
		Address:     address,
		TotalValue:  "0",
		Tokens:      []TokenBalance{},
		LastUpdated: now,
	}
}
