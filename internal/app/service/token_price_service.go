package service

import (
	"context"
	"errors"
	"time"

	"portfolio_viewer/internal/app/port"
	"portfolio_viewer/internal/domain/entity"
	"portfolio_viewer/internal/pkg/metrics"
	"portfolio_viewer/internal/pkg/ratelimit"
	"portfolio_viewer/internal/pkg/utils"
)

// TokenPriceServiceConfig tunes the price feed discipline.
type TokenPriceServiceConfig struct {
	MinDelay     time.Duration // spacing between any two upstream requests
	MaxRetries   int           // extra attempts after a 429
	DefaultLimit int           // addresses priced per call when the caller passes 0
}

// TokenPriceService implements port.PriceSource. Requests are issued one at a time
// through a shared limiter; a 429 is retried after twice the minimum delay.
type TokenPriceService struct {
	api     port.PriceAPI
	limiter *ratelimit.Limiter
	network entity.NetworkDefinition
	cfg     TokenPriceServiceConfig
	logger  port.Logger
}

func NewTokenPriceService(api port.PriceAPI, network entity.NetworkDefinition, cfg TokenPriceServiceConfig, l port.Logger) *TokenPriceService {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &TokenPriceService{
		api:     api,
		limiter: ratelimit.NewIntervalLimiter(cfg.MinDelay, "coingecko"),
		network: network,
		cfg:     cfg,
		logger:  l,
	}
}

// GetPrices prices the first limit addresses in order. Addresses that fail, are not
// listed, or are left when ctx ends are simply absent from the quote.
func (s *TokenPriceService) GetPrices(ctx context.Context, contractAddresses []string, limit int) entity.PriceQuote {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	quote := make(entity.PriceQuote)
	unique := utils.UniqueLower(contractAddresses)
	addresses := utils.Truncate(unique, limit)
	if skipped := len(unique) - len(addresses); skipped > 0 {
		s.logger.Debug("Price lookup limited", "requested", len(unique), "priced", len(addresses), "skipped", skipped)
	}

	for _, address := range addresses {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("Price budget exhausted, returning partial quote", "priced", len(quote), "error", err)
			break
		}

		price, found, err := s.fetchWithRetry(ctx, address)
		switch {
		case err != nil:
			metrics.PriceRequestsTotal.WithLabelValues(priceErrorStatus(err)).Inc()
			s.logger.Warn("Failed to fetch token price", "address", address, "error", err)
		case !found:
			metrics.PriceRequestsTotal.WithLabelValues("not_found").Inc()
			s.logger.Debug("No USD price listed", "address", address)
		default:
			metrics.PriceRequestsTotal.WithLabelValues("ok").Inc()
			quote[address] = entity.TokenPrice{USD: price}
		}
	}

	return quote
}

func (s *TokenPriceService) fetchWithRetry(ctx context.Context, address string) (float64, bool, error) {
	var lastErr error
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return 0, false, err
		}

		price, found, err := s.fetchOnce(ctx, address)
		if err == nil {
			return price, found, nil
		}
		lastErr = err
		if !errors.Is(err, entity.ErrRateLimited) {
			return 0, false, err
		}
		if attempt == s.cfg.MaxRetries {
			break
		}

		backoff := 2 * s.cfg.MinDelay
		s.logger.Warn("Price feed rate limited, backing off", "address", address, "attempt", attempt+1, "backoff", backoff)
		if err := ratelimit.Sleep(ctx, backoff); err != nil {
			return 0, false, err
		}
	}
	return 0, false, lastErr
}

func (s *TokenPriceService) fetchOnce(ctx context.Context, address string) (float64, bool, error) {
	if entity.IsNativeContract(address) {
		return s.api.GetCoinPrice(ctx, s.network.CoinGeckoNativeID)
	}
	return s.api.GetTokenPrice(ctx, s.network.CoinGeckoPlatform, address)
}

func priceErrorStatus(err error) string {
	switch {
	case errors.Is(err, entity.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "error"
	}
}
