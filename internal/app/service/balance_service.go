package service

import (
	"context"
	"fmt"

	"portfolio_viewer/internal/app/port"
	"portfolio_viewer/internal/domain/entity"
)

// maxBalancePages caps pagination so a pathological address cannot pin a request.
const maxBalancePages = 10

// BalanceService implements port.BalanceSource on top of the token index.
type BalanceService struct {
	api     port.TokenIndexAPI
	network entity.NetworkDefinition
	logger  port.Logger
}

func NewBalanceService(api port.TokenIndexAPI, network entity.NetworkDefinition, l port.Logger) *BalanceService {
	return &BalanceService{api: api, network: network, logger: l}
}

// GetBalances returns the address's ERC-20 holdings in upstream order, truncated so the
// total (including the native entry when requested) does not exceed opts.MaxTokens.
// Unless opts.IncludeZeroBalances is set, zero balances are skipped before they count
// toward the limit; the index reports every token the address ever held.
func (s *BalanceService) GetBalances(ctx context.Context, address string, opts entity.PortfolioOptions) ([]entity.RawTokenBalance, error) {
	var native *entity.RawTokenBalance
	if opts.IncludeNative && opts.MaxTokens > 0 {
		bal, err := s.api.GetNativeBalance(ctx, address)
		if err != nil {
			return nil, fmt.Errorf("fetch native balance for %s: %w", address, err)
		}
		amount := entity.NewAmount(bal)
		if opts.IncludeZeroBalances || !amount.IsZero() {
			native = &entity.RawTokenBalance{
				ContractAddress: entity.NativeContractAddress,
				TokenBalance:    amount.Hex(),
			}
		}
	}

	tokenLimit := opts.MaxTokens
	if native != nil {
		tokenLimit--
	}

	balances, skipped, err := s.fetchTokenBalances(ctx, address, tokenLimit, opts.IncludeZeroBalances)
	if err != nil {
		return nil, err
	}
	if native != nil {
		balances = append(balances, *native)
	}

	s.logger.Debug("Discovered balances",
		"address", address,
		"count", len(balances),
		"skippedZero", skipped,
		"includeNative", opts.IncludeNative,
		"network", s.network.Identifier)
	return balances, nil
}

func (s *BalanceService) fetchTokenBalances(ctx context.Context, address string, limit int, includeZero bool) ([]entity.RawTokenBalance, int, error) {
	out := make([]entity.RawTokenBalance, 0)
	if limit <= 0 {
		return out, 0, nil
	}

	skipped := 0
	pageKey := ""
	for page := 0; page < maxBalancePages; page++ {
		res, err := s.api.GetTokenBalances(ctx, address, pageKey)
		if err != nil {
			return nil, 0, fmt.Errorf("fetch token balances for %s: %w", address, err)
		}

		for _, tb := range res.TokenBalances {
			raw := entity.RawTokenBalance{ContractAddress: tb.ContractAddress, TokenBalance: "0x0"}
			if tb.TokenBalance != nil {
				raw.TokenBalance = *tb.TokenBalance
			}
			if tb.Error != nil {
				raw.Error = *tb.Error
			}
			// Unparsable balances pass through; the aggregator drops them.
			if !includeZero {
				if amount, err := entity.ParseAmount(raw.TokenBalance); err == nil && amount.IsZero() {
					skipped++
					continue
				}
			}
			out = append(out, raw)
			if len(out) == limit {
				return out, skipped, nil
			}
		}

		if res.PageKey == "" {
			return out, skipped, nil
		}
		pageKey = res.PageKey
	}

	s.logger.Warn("Stopped paging token balances", "address", address, "pages", maxBalancePages)
	return out, skipped, nil
}
