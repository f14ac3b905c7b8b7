package entity

const UnverifiedSymbol = "N/A"

// VerificationResult compares an upstream-claimed holding with direct contract reads.
// Balance and AlchemyBalance are base-10 strings in smallest units. Verified holds
// only when both SymbolMatch and BalanceMatch do.
type VerificationResult struct {
	Symbol         string `json:"symbol"`
	Balance        string `json:"balance"`
	Name           string `json:"name"`
	Verified       bool   `json:"verified"`
	SymbolMatch    bool   `json:"symbolMatch"`
	BalanceMatch   bool   `json:"balanceMatch"`
	AlchemySymbol  string `json:"alchemySymbol"`
	AlchemyBalance string `json:"alchemyBalance"`
	AlchemyName    string `json:"alchemyName"`
	Error          string `json:"error,omitempty"`
}

// Claim is what the balance and metadata sources asserted about a holding.
type Claim struct {
	Balance string // base-10 smallest units
	Symbol  string
	Name    string
}

// NewVerificationResult fills in the comparison fields from on-chain reads.
func NewVerificationResult(claim Claim, onChainSymbol, onChainName string, onChainBalance, claimedBalance Amount) VerificationResult {
	symbolMatch := onChainSymbol == claim.Symbol
	balanceMatch := onChainBalance.Equal(claimedBalance)
	return VerificationResult{
		Symbol:         onChainSymbol,
		Balance:        onChainBalance.String(),
		Name:           onChainName,
		Verified:       symbolMatch && balanceMatch,
		SymbolMatch:    symbolMatch,
		BalanceMatch:   balanceMatch,
		AlchemySymbol:  claim.Symbol,
		AlchemyBalance: claimedBalance.String(),
		AlchemyName:    claim.Name,
	}
}

// FailedVerification is the result returned when any on-chain read fails.
func FailedVerification(claim Claim, err error) VerificationResult {
	result := VerificationResult{
		Symbol:         UnverifiedSymbol,
		Balance:        "0",
		Name:           UnknownTokenName,
		AlchemySymbol:  claim.Symbol,
		AlchemyBalance: claim.Balance,
		AlchemyName:    claim.Name,
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}
