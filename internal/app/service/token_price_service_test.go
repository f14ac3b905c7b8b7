package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_viewer/internal/domain/entity"
	"portfolio_viewer/internal/pkg/logger"
)

var testNetwork = entity.NetworkDefinition{
	Identifier:        "ethereum",
	NativeSymbol:      "ETH",
	NativeName:        "Ethereum",
	Decimals:          18,
	CoinGeckoPlatform: "ethereum",
	CoinGeckoNativeID: "ethereum",
}

var errRateLimited = fmt.Errorf("status 429: %w", entity.ErrRateLimited)

func newPriceService(api *fakePriceAPI, minDelay time.Duration) *TokenPriceService {
	return NewTokenPriceService(api, testNetwork, TokenPriceServiceConfig{
		MinDelay:     minDelay,
		MaxRetries:   2,
		DefaultLimit: 15,
	}, logger.NewNopAdapter())
}

func tokenKey(addr string) string { return "ethereum:" + addr }

func TestGetPrices_Basic(t *testing.T) {
	api := &fakePriceAPI{respond: func(key string, _ int) (float64, bool, error) {
		switch key {
		case tokenKey(usdt):
			return 1.0, true, nil
		case "coin:ethereum":
			return 3000, true, nil
		default:
			return 0, false, nil
		}
	}}
	svc := newPriceService(api, 0)

	quote := svc.GetPrices(context.Background(), []string{"0xDAC17F958D2EE523A2206206994597C13D831EC7", entity.NativeContractAddress, dai}, 0)

	assert.Equal(t, entity.PriceQuote{
		usdt:                         {USD: 1.0},
		entity.NativeContractAddress: {USD: 3000},
	}, quote)
}

func TestGetPrices_RespectsLimitAndOrder(t *testing.T) {
	api := &fakePriceAPI{respond: func(string, int) (float64, bool, error) { return 1, true, nil }}
	svc := newPriceService(api, 0)

	addresses := make([]string, 20)
	for i := range addresses {
		addresses[i] = fmt.Sprintf("0x%040x", i+1)
	}

	quote := svc.GetPrices(context.Background(), addresses, 0)
	assert.Len(t, quote, 15)
	for i := 0; i < 15; i++ {
		assert.Contains(t, quote, addresses[i])
	}
	assert.NotContains(t, quote, addresses[15])
	assert.Equal(t, tokenKey(addresses[0]), api.order[0])

	quote = svc.GetPrices(context.Background(), addresses, 3)
	assert.Len(t, quote, 3)
}

func TestGetPrices_DeduplicatesCaseInsensitively(t *testing.T) {
	api := &fakePriceAPI{respond: func(string, int) (float64, bool, error) { return 1, true, nil }}
	svc := newPriceService(api, 0)

	quote := svc.GetPrices(context.Background(), []string{usdt, "0xDAC17F958D2EE523A2206206994597C13D831EC7"}, 0)
	assert.Len(t, quote, 1)
	assert.Equal(t, 1, api.attemptsFor(tokenKey(usdt)))
}

func TestGetPrices_RetriesRateLimit(t *testing.T) {
	api := &fakePriceAPI{respond: func(key string, attempt int) (float64, bool, error) {
		if attempt <= 2 {
			return 0, false, errRateLimited
		}
		return 2.5, true, nil
	}}
	svc := newPriceService(api, 5*time.Millisecond)

	start := time.Now()
	quote := svc.GetPrices(context.Background(), []string{usdt}, 0)

	assert.Equal(t, 2.5, quote.USD(usdt))
	assert.Equal(t, 3, api.attemptsFor(tokenKey(usdt)))
	// Two backoffs of twice the min delay.
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestGetPrices_RateLimitExhausted(t *testing.T) {
	api := &fakePriceAPI{respond: func(key string, _ int) (float64, bool, error) {
		if key == tokenKey(usdt) {
			return 0, false, errRateLimited
		}
		return 1, true, nil
	}}
	svc := newPriceService(api, time.Millisecond)

	quote := svc.GetPrices(context.Background(), []string{usdt, dai}, 0)

	assert.Equal(t, 3, api.attemptsFor(tokenKey(usdt)))
	assert.NotContains(t, quote, usdt)
	assert.Equal(t, 1.0, quote.USD(dai))
}

func TestGetPrices_OtherErrorsAreNotRetried(t *testing.T) {
	api := &fakePriceAPI{respond: func(key string, _ int) (float64, bool, error) {
		if key == tokenKey(usdt) {
			return 0, false, errors.New("connection reset by peer")
		}
		return 1, true, nil
	}}
	svc := newPriceService(api, 0)

	quote := svc.GetPrices(context.Background(), []string{usdt, dai}, 0)

	assert.Equal(t, 1, api.attemptsFor(tokenKey(usdt)))
	assert.Equal(t, entity.PriceQuote{dai: {USD: 1}}, quote)
}

func TestGetPrices_SpacesRequests(t *testing.T) {
	api := &fakePriceAPI{respond: func(string, int) (float64, bool, error) { return 1, true, nil }}
	svc := newPriceService(api, 30*time.Millisecond)

	start := time.Now()
	svc.GetPrices(context.Background(), []string{usdt, dai, link}, 0)

	// First call is immediate, the next two each wait one interval.
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.Len(t, api.order, 3)
}

func TestGetPrices_BudgetReturnsPartialQuote(t *testing.T) {
	api := &fakePriceAPI{respond: func(string, int) (float64, bool, error) { return 1, true, nil }}
	svc := newPriceService(api, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	quote := svc.GetPrices(ctx, []string{usdt, dai, link}, 0)

	require.Len(t, quote, 1)
	assert.Contains(t, quote, usdt)
	assert.Less(t, time.Since(start), time.Second)
}

func TestGetPrices_Empty(t *testing.T) {
	api := &fakePriceAPI{respond: func(string, int) (float64, bool, error) {
		t.Fatal("no request expected")
		return 0, false, nil
	}}
	quote := newPriceService(api, 0).GetPrices(context.Background(), nil, 0)
	assert.NotNil(t, quote)
	assert.Empty(t, quote)
}
