package port

import (
	"context"
	"math/big"

	"portfolio_viewer/internal/domain/entity"
	apitypes "portfolio_viewer/internal/entity"
)

// BalanceSource discovers the holdings of an address. An error here is fatal for the request.
// It honours opts.MaxTokens, opts.IncludeNative and opts.IncludeZeroBalances.
type BalanceSource interface {
	GetBalances(ctx context.Context, address string, opts entity.PortfolioOptions) ([]entity.RawTokenBalance, error)
}

// MetadataSource resolves token metadata. It never fails; lookup errors
// degrade to entity.FallbackMetadata.
type MetadataSource interface {
	GetMetadata(ctx context.Context, contractAddress string) entity.MetadataResult
}

// PriceSource returns USD prices for at most limit addresses. Missing entries mean "no price".
type PriceSource interface {
	GetPrices(ctx context.Context, contractAddresses []string, limit int) entity.PriceQuote
}

// Verifier cross-checks an upstream-claimed holding against the chain. It never fails;
// problems are reported inside the result.
type Verifier interface {
	Verify(ctx context.Context, contractAddress, ownerAddress, claimedBalance, claimedSymbol, claimedName string) entity.VerificationResult
}

// TokenIndexAPI is the indexed balance/metadata upstream.
type TokenIndexAPI interface {
	GetTokenBalances(ctx context.Context, owner, pageKey string) (*apitypes.TokenBalancesResult, error)
	GetTokenMetadata(ctx context.Context, contractAddress string) (*apitypes.TokenMetadataResult, error)
	GetNativeBalance(ctx context.Context, owner string) (*big.Int, error)
}

// PriceAPI is the spot price upstream.
type PriceAPI interface {
	GetTokenPrice(ctx context.Context, platform, contractAddress string) (price float64, found bool, err error)
	GetCoinPrice(ctx context.Context, coinID string) (price float64, found bool, err error)
}
