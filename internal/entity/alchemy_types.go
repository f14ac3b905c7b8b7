package entity

// TokenBalancesOptions is the third positional parameter of alchemy_getTokenBalances.
type TokenBalancesOptions struct {
	PageKey  string `json:"pageKey,omitempty"`
	MaxCount int    `json:"maxCount,omitempty"`
}

// TokenBalancesResult is the result of alchemy_getTokenBalances.
type TokenBalancesResult struct {
	Address       string                `json:"address"`
	TokenBalances []AlchemyTokenBalance `json:"tokenBalances"`
	PageKey       string                `json:"pageKey,omitempty"`
}

// AlchemyTokenBalance carries a 32-byte hex balance, or an error string when
// Alchemy could not read the contract.
type AlchemyTokenBalance struct {
	ContractAddress string  `json:"contractAddress"`
	TokenBalance    *string `json:"tokenBalance"`
	Error           *string `json:"error"`
}

// TokenMetadataResult is the result of alchemy_getTokenMetadata. Every field may be null.
type TokenMetadataResult struct {
	Name     *string `json:"name"`
	Symbol   *string `json:"symbol"`
	Decimals *int    `json:"decimals"`
	Logo     *string `json:"logo"`
}
