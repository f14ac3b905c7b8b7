package port

import (
	"context"

	"portfolio_viewer/internal/domain/entity"
)

// PortfolioService builds the aggregated portfolio of one address.
// It returns entity.ErrInvalidAddress for malformed input and *entity.DiscoveryError
// when holdings cannot be discovered; every later stage degrades instead of failing.
type PortfolioService interface {
	BuildPortfolio(ctx context.Context, address string, opts entity.PortfolioOptions) (*entity.Portfolio, error)
}
