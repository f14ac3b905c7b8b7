package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_viewer/internal/domain/entity"
)

// rendezvous closes done once arrive has been called n times.
type rendezvous struct {
	n    int32
	seen atomic.Int32
	done chan struct{}
	once sync.Once
}

func newRendezvous(n int) *rendezvous {
	return &rendezvous{n: int32(n), done: make(chan struct{})}
}

func (r *rendezvous) arrive() {
	if r.seen.Add(1) >= r.n {
		r.once.Do(func() { close(r.done) })
	}
}

// wait reports whether the rendezvous completed before ctx expired.
func (r *rendezvous) wait(ctx context.Context) bool {
	select {
	case <-r.done:
		return true
	case <-ctx.Done():
		return false
	}
}

// metadataAfterPrices resolves only once the price lookup is in flight.
type metadataAfterPrices struct {
	inner        *fakeMetadataSource
	priceStarted *rendezvous
	lookups      *rendezvous
}

func (m *metadataAfterPrices) GetMetadata(ctx context.Context, contract string) entity.MetadataResult {
	m.lookups.arrive()
	if !m.priceStarted.wait(ctx) {
		return entity.MetadataResult{Metadata: entity.FallbackMetadata(), Outcome: entity.Degraded("price lookup never started")}
	}
	return m.inner.GetMetadata(ctx, contract)
}

// pricesAfterMetadata answers only once every metadata lookup has started.
type pricesAfterMetadata struct {
	quote        entity.PriceQuote
	priceStarted *rendezvous
	lookups      *rendezvous
	released     atomic.Bool
}

func (p *pricesAfterMetadata) GetPrices(ctx context.Context, _ []string, _ int) entity.PriceQuote {
	p.priceStarted.arrive()
	if !p.lookups.wait(ctx) {
		return entity.PriceQuote{}
	}
	p.released.Store(true)
	return p.quote
}

// overlappingVerifier succeeds only when all n verifications are in flight together.
type overlappingVerifier struct {
	all *rendezvous
}

func (v *overlappingVerifier) Verify(ctx context.Context, _, _, claimedBalance, claimedSymbol, claimedName string) entity.VerificationResult {
	claim := entity.Claim{Balance: claimedBalance, Symbol: claimedSymbol, Name: claimedName}
	v.all.arrive()
	if !v.all.wait(ctx) {
		return entity.FailedVerification(claim, ctx.Err())
	}
	amount, _ := entity.ParseAmount(claimedBalance)
	return entity.NewVerificationResult(claim, claimedSymbol, claimedName, amount, amount)
}

func threeTokenPipeline() *pipeline {
	return newPipeline(
		[]entity.RawTokenBalance{
			{ContractAddress: usdt, TokenBalance: "0x2541536cc"},
			{ContractAddress: dai, TokenBalance: "0xde0b6b3a7640000"},
			{ContractAddress: link, TokenBalance: "0xde0b6b3a7640000"},
		},
		map[string]entity.MetadataResult{
			usdt: ok(metadata("Tether USD", "USDT", 6)),
			dai:  ok(metadata("Dai Stablecoin", "DAI", 18)),
			link: ok(metadata("ChainLink Token", "LINK", 18)),
		},
		entity.PriceQuote{usdt: {USD: 1}, dai: {USD: 1}, link: {USD: 15}},
	)
}

func TestBuildPortfolio_PricesRunAlongsideMetadata(t *testing.T) {
	p := threeTokenPipeline()
	priceStarted, lookups := newRendezvous(1), newRendezvous(3)
	prices := &pricesAfterMetadata{quote: p.prices.quote, priceStarted: priceStarted, lookups: lookups}
	p.svc.prices = prices
	p.svc.metadata = &metadataAfterPrices{inner: p.metadata, priceStarted: priceStarted, lookups: lookups}

	got, err := p.svc.BuildPortfolio(context.Background(), owner, entity.PortfolioOptions{IncludeZeroBalances: true})
	require.NoError(t, err)

	assert.True(t, prices.released.Load(), "price lookup waited out its budget")
	require.Len(t, got.Tokens, 3)
	for _, tok := range got.Tokens {
		assert.NotEqual(t, entity.UnknownTokenSymbol, tok.Symbol, "metadata for %s degraded", tok.ContractAddress)
	}
	assert.Equal(t, "10016.61", got.TotalValue)
}

func TestBuildPortfolio_VerificationsOverlap(t *testing.T) {
	p := threeTokenPipeline()
	p.svc.verifier = &overlappingVerifier{all: newRendezvous(3)}

	got, err := p.svc.BuildPortfolio(context.Background(), owner, entity.PortfolioOptions{IncludeZeroBalances: true})
	require.NoError(t, err)

	require.Len(t, got.Tokens, 3)
	for _, tok := range got.Tokens {
		assert.Empty(t, tok.Verification.Error, "verification of %s ran alone", tok.Symbol)
		assert.True(t, tok.Verification.Verified)
	}
}
