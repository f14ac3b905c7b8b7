package service

import (
	"time"

	"portfolio_viewer/internal/infrastructure/configloader"
)

// PortfolioServiceConfig holds the aggregator's limits and stage timeouts.
type PortfolioServiceConfig struct {
	DefaultMaxTokens      int
	PriceLimit            int
	MaxConcurrentRoutines int
	DiscoveryTimeout      time.Duration // exceeding it fails the request
	ItemTimeout           time.Duration // per metadata lookup and per verification
	PriceBudget           time.Duration // whole price stage
}

func NewPortfolioServiceConfig(cfg *configloader.Config) PortfolioServiceConfig {
	return PortfolioServiceConfig{
		DefaultMaxTokens:      cfg.Portfolio.DefaultMaxTokens,
		PriceLimit:            cfg.CoinGecko.MaxTokens,
		MaxConcurrentRoutines: cfg.Portfolio.MaxConcurrentRoutines,
		DiscoveryTimeout:      cfg.Portfolio.DiscoveryTimeout(),
		ItemTimeout:           cfg.Portfolio.ItemTimeout(),
		PriceBudget:           cfg.Portfolio.PriceBudget(),
	}
}

func NewTokenPriceServiceConfig(cfg *configloader.Config) TokenPriceServiceConfig {
	return TokenPriceServiceConfig{
		MinDelay:     cfg.CoinGecko.MinDelay(),
		MaxRetries:   cfg.CoinGecko.Retries(),
		DefaultLimit: cfg.CoinGecko.MaxTokens,
	}
}
