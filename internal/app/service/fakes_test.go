package service

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"sync/atomic"

	"portfolio_viewer/internal/domain/entity"
	apitypes "portfolio_viewer/internal/entity"
)

func strPtr(s string) *string { return &s }

func metadata(name, symbol string, decimals uint8) entity.TokenMetadata {
	return entity.TokenMetadata{Name: strPtr(name), Symbol: strPtr(symbol), Decimals: &decimals}
}

type fakeBalanceSource struct {
	balances []entity.RawTokenBalance
	err      error
	block    bool // wait for ctx cancellation

	calls   atomic.Int32
	gotOpts entity.PortfolioOptions
}

func (f *fakeBalanceSource) GetBalances(ctx context.Context, _ string, opts entity.PortfolioOptions) ([]entity.RawTokenBalance, error) {
	f.calls.Add(1)
	f.gotOpts = opts
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.balances, f.err
}

type fakeMetadataSource struct {
	byContract map[string]entity.MetadataResult
	block      map[string]bool // contracts whose lookup waits for ctx and then falls back

	mu    sync.Mutex
	calls []string
}

func (f *fakeMetadataSource) GetMetadata(ctx context.Context, contract string) entity.MetadataResult {
	f.mu.Lock()
	f.calls = append(f.calls, contract)
	f.mu.Unlock()

	if f.block[contract] {
		<-ctx.Done()
		return entity.MetadataResult{Metadata: entity.FallbackMetadata(), Outcome: entity.Degraded(ctx.Err().Error())}
	}
	if res, ok := f.byContract[contract]; ok {
		return res
	}
	return entity.MetadataResult{Metadata: entity.FallbackMetadata(), Outcome: entity.Degraded("not found")}
}

func (f *fakeMetadataSource) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakePriceSource struct {
	quote entity.PriceQuote

	calls        atomic.Int32
	gotAddresses []string
	gotLimit     int
}

func (f *fakePriceSource) GetPrices(_ context.Context, addresses []string, limit int) entity.PriceQuote {
	f.calls.Add(1)
	f.gotAddresses = addresses
	f.gotLimit = limit
	return f.quote
}

type fakeVerifier struct {
	fail map[string]error

	mu    sync.Mutex
	calls []string
}

func (f *fakeVerifier) Verify(_ context.Context, contract, _, claimedBalance, claimedSymbol, claimedName string) entity.VerificationResult {
	f.mu.Lock()
	f.calls = append(f.calls, contract)
	f.mu.Unlock()

	claim := entity.Claim{Balance: claimedBalance, Symbol: claimedSymbol, Name: claimedName}
	if err := f.fail[contract]; err != nil {
		return entity.FailedVerification(claim, err)
	}
	amount, _ := entity.ParseAmount(claimedBalance)
	return entity.NewVerificationResult(claim, claimedSymbol, claimedName, amount, amount)
}

func (f *fakeVerifier) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// fakeTokenIndex serves alchemy-style pages keyed by page key ("" is the first page).
type fakeTokenIndex struct {
	pages         map[string]*apitypes.TokenBalancesResult
	balancesErr   error
	metadata      map[string]*apitypes.TokenMetadataResult
	metadataErr   error
	nativeBalance *big.Int
	nativeErr     error

	pageCalls   atomic.Int32
	nativeCalls atomic.Int32
}

func (f *fakeTokenIndex) GetTokenBalances(_ context.Context, _ string, pageKey string) (*apitypes.TokenBalancesResult, error) {
	f.pageCalls.Add(1)
	if f.balancesErr != nil {
		return nil, f.balancesErr
	}
	page, ok := f.pages[pageKey]
	if !ok {
		return &apitypes.TokenBalancesResult{}, nil
	}
	return page, nil
}

func (f *fakeTokenIndex) GetTokenMetadata(_ context.Context, contract string) (*apitypes.TokenMetadataResult, error) {
	if f.metadataErr != nil {
		return nil, f.metadataErr
	}
	if md, ok := f.metadata[strings.ToLower(contract)]; ok {
		return md, nil
	}
	return &apitypes.TokenMetadataResult{}, nil
}

func (f *fakeTokenIndex) GetNativeBalance(context.Context, string) (*big.Int, error) {
	f.nativeCalls.Add(1)
	if f.nativeErr != nil {
		return nil, f.nativeErr
	}
	return f.nativeBalance, nil
}

// fakePriceAPI answers with respond, which sees the per-key attempt number (1-based).
type fakePriceAPI struct {
	respond func(key string, attempt int) (float64, bool, error)

	mu       sync.Mutex
	attempts map[string]int
	order    []string
}

func (f *fakePriceAPI) record(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attempts == nil {
		f.attempts = make(map[string]int)
	}
	f.attempts[key]++
	f.order = append(f.order, key)
	return f.attempts[key]
}

func (f *fakePriceAPI) GetTokenPrice(_ context.Context, platform, contract string) (float64, bool, error) {
	key := platform + ":" + contract
	return f.respond(key, f.record(key))
}

func (f *fakePriceAPI) GetCoinPrice(_ context.Context, coinID string) (float64, bool, error) {
	key := "coin:" + coinID
	return f.respond(key, f.record(key))
}

func (f *fakePriceAPI) attemptsFor(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts[key]
}

type fakeChainReader struct {
	symbol     string
	name       string
	balance    *big.Int
	native     *big.Int
	symbolErr  error
	nameErr    error
	balanceErr error
	nativeErr  error
}

func (f *fakeChainReader) GetNativeBalance(context.Context, string) (*big.Int, error) {
	return f.native, f.nativeErr
}

func (f *fakeChainReader) TokenSymbol(context.Context, string) (string, error) {
	return f.symbol, f.symbolErr
}

func (f *fakeChainReader) TokenName(context.Context, string) (string, error) {
	return f.name, f.nameErr
}

func (f *fakeChainReader) TokenBalance(context.Context, string, string) (*big.Int, error) {
	return f.balance, f.balanceErr
}
