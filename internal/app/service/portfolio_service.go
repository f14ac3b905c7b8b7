package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"portfolio_viewer/internal/app/port"
	"portfolio_viewer/internal/domain/entity"
	"portfolio_viewer/internal/pkg/metrics"
)

// PortfolioServiceImpl implements port.PortfolioService.
//
// A build runs in stages: discovery (fatal on error), zero-balance filtering,
// metadata and prices in parallel, per-token assembly with on-chain verification,
// then sorting and totalling. Every stage after discovery degrades per token
// instead of failing the request.
type PortfolioServiceImpl struct {
	balances port.BalanceSource
	metadata port.MetadataSource
	prices   port.PriceSource
	verifier port.Verifier
	cfg      PortfolioServiceConfig
	logger   port.Logger
	now      func() time.Time
}

func NewPortfolioService(
	balances port.BalanceSource,
	metadata port.MetadataSource,
	prices port.PriceSource,
	verifier port.Verifier,
	cfg PortfolioServiceConfig,
	l port.Logger,
) *PortfolioServiceImpl {
	if cfg.MaxConcurrentRoutines <= 0 {
		cfg.MaxConcurrentRoutines = 1
	}
	return &PortfolioServiceImpl{
		balances: balances,
		metadata: metadata,
		prices:   prices,
		verifier: verifier,
		cfg:      cfg,
		logger:   l,
		now:      time.Now,
	}
}

// candidate is a discovered balance that survived filtering.
type candidate struct {
	raw    entity.RawTokenBalance
	amount entity.Amount
}

// assembledToken keeps the cent-rounded value next to its rendered form for sorting and totalling.
type assembledToken struct {
	token entity.TokenBalance
	value decimal.Decimal
}

// BuildPortfolio implements port.PortfolioService.
func (s *PortfolioServiceImpl) BuildPortfolio(ctx context.Context, address string, opts entity.PortfolioOptions) (*entity.Portfolio, error) {
	start := time.Now()
	defer func() { metrics.PortfolioBuildDuration.Observe(time.Since(start).Seconds()) }()

	if !entity.IsValidAddress(address) {
		metrics.PortfolioBuildsTotal.WithLabelValues("invalid_address").Inc()
		return nil, entity.ErrInvalidAddress
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = s.cfg.DefaultMaxTokens
	}

	raw, err := s.discover(ctx, address, opts)
	if err != nil {
		metrics.PortfolioBuildsTotal.WithLabelValues("discovery_failed").Inc()
		s.logger.Error("Balance discovery failed", "address", address, "error", err)
		return nil, &entity.DiscoveryError{Address: address, Err: err}
	}
	if len(raw) == 0 {
		metrics.PortfolioBuildsTotal.WithLabelValues("empty").Inc()
		s.logger.Info("No holdings discovered", "address", address)
		return entity.EmptyPortfolio(address, s.now().UTC()), nil
	}

	candidates := s.selectCandidates(raw, opts.IncludeZeroBalances)
	metas, quote := s.enrich(ctx, candidates)
	tokens := s.assemble(ctx, address, candidates, metas, quote)
	portfolio := s.finalize(address, tokens)

	metrics.PortfolioBuildsTotal.WithLabelValues("ok").Inc()
	metrics.PortfolioTokensReturned.Observe(float64(len(portfolio.Tokens)))
	s.logger.Info("Portfolio built",
		"address", address,
		"discovered", len(raw),
		"tokens", len(portfolio.Tokens),
		"priced", len(quote),
		"totalValue", portfolio.TotalValue,
		"elapsed", time.Since(start))
	return portfolio, nil
}

func (s *PortfolioServiceImpl) discover(ctx context.Context, address string, opts entity.PortfolioOptions) ([]entity.RawTokenBalance, error) {
	dctx, cancel := withTimeout(ctx, s.cfg.DiscoveryTimeout)
	defer cancel()
	return s.balances.GetBalances(dctx, address, opts)
}

func (s *PortfolioServiceImpl) selectCandidates(raw []entity.RawTokenBalance, includeZero bool) []candidate {
	out := make([]candidate, 0, len(raw))
	for _, rb := range raw {
		amount, err := entity.ParseAmount(rb.TokenBalance)
		if err != nil {
			metrics.TokensDroppedTotal.WithLabelValues("unparsable_balance").Inc()
			s.logger.Warn("Dropping token with unparsable balance", "contract", rb.ContractAddress, "balance", rb.TokenBalance, "error", err)
			continue
		}
		if rb.Error != "" {
			s.logger.Debug("Upstream reported balance error", "contract", rb.ContractAddress, "error", rb.Error)
		}
		if !includeZero && amount.IsZero() {
			metrics.TokensDroppedTotal.WithLabelValues("zero_balance").Inc()
			continue
		}
		out = append(out, candidate{raw: rb, amount: amount})
	}
	return out
}

// enrich runs the metadata fan-out and the price lookup concurrently.
func (s *PortfolioServiceImpl) enrich(ctx context.Context, candidates []candidate) ([]entity.MetadataResult, entity.PriceQuote) {
	metas := make([]entity.MetadataResult, len(candidates))
	if len(candidates) == 0 {
		return metas, entity.PriceQuote{}
	}

	addresses := make([]string, len(candidates))
	for i, c := range candidates {
		addresses[i] = c.raw.ContractAddress
	}

	var quote entity.PriceQuote
	var g errgroup.Group
	g.Go(func() error {
		pctx, cancel := withTimeout(ctx, s.cfg.PriceBudget)
		defer cancel()
		quote = s.prices.GetPrices(pctx, addresses, s.cfg.PriceLimit)
		return nil
	})
	g.Go(func() error {
		s.fetchMetadata(ctx, candidates, metas)
		return nil
	})
	_ = g.Wait()

	if quote == nil {
		quote = entity.PriceQuote{}
	}
	return metas, quote
}

// fetchMetadata fills metas[i] for candidates[i]; each goroutine owns exactly one slot.
func (s *PortfolioServiceImpl) fetchMetadata(ctx context.Context, candidates []candidate, metas []entity.MetadataResult) {
	var g errgroup.Group
	g.SetLimit(s.cfg.MaxConcurrentRoutines)
	for i, c := range candidates {
		g.Go(func() error {
			ictx, cancel := withTimeout(ctx, s.cfg.ItemTimeout)
			defer cancel()
			metas[i] = s.metadata.GetMetadata(ictx, c.raw.ContractAddress)
			if metas[i].Outcome.Status != entity.OutcomeOK {
				s.logger.Debug("Metadata degraded", "contract", c.raw.ContractAddress, "reason", metas[i].Outcome.Reason)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (s *PortfolioServiceImpl) assemble(
	ctx context.Context,
	owner string,
	candidates []candidate,
	metas []entity.MetadataResult,
	quote entity.PriceQuote,
) []assembledToken {
	slots := make([]*assembledToken, len(candidates))

	var g errgroup.Group
	g.SetLimit(s.cfg.MaxConcurrentRoutines)
	for i, c := range candidates {
		md := metas[i].Metadata
		if !md.IsValid() {
			metrics.TokensDroppedTotal.WithLabelValues("invalid_metadata").Inc()
			s.logger.Debug("Dropping token with incomplete metadata", "contract", c.raw.ContractAddress)
			continue
		}
		g.Go(func() error {
			slots[i] = s.assembleToken(ctx, owner, c, md, quote)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]assembledToken, 0, len(slots))
	for _, t := range slots {
		if t != nil {
			out = append(out, *t)
		}
	}
	return out
}

func (s *PortfolioServiceImpl) assembleToken(
	ctx context.Context,
	owner string,
	c candidate,
	md entity.TokenMetadata,
	quote entity.PriceQuote,
) *assembledToken {
	decimals := *md.Decimals
	balance := c.amount.Decimal(decimals)
	price := decimal.NewFromFloat(quote.USD(c.raw.ContractAddress))
	value := balance.Mul(price).Round(2)

	vctx, cancel := withTimeout(ctx, s.cfg.ItemTimeout)
	defer cancel()
	verification := s.verifier.Verify(vctx, c.raw.ContractAddress, owner, c.raw.TokenBalance, *md.Symbol, *md.Name)

	return &assembledToken{
		token: entity.TokenBalance{
			ContractAddress: c.raw.ContractAddress,
			Symbol:          *md.Symbol,
			Name:            *md.Name,
			Balance:         balance.StringFixed(4),
			RawBalance:      c.raw.TokenBalance,
			Decimals:        decimals,
			Logo:            md.Logo,
			PriceUSD:        price.StringFixed(2),
			ValueUSD:        value.StringFixed(2),
			Verification:    verification,
		},
		value: value,
	}
}

// finalize sorts by value descending (stable, so ties keep discovery order) and
// sums the same cent-rounded values that are rendered per token.
func (s *PortfolioServiceImpl) finalize(address string, tokens []assembledToken) *entity.Portfolio {
	sort.SliceStable(tokens, func(i, j int) bool {
		return tokens[i].value.GreaterThan(tokens[j].value)
	})

	total := decimal.Zero
	out := make([]entity.TokenBalance, len(tokens))
	for i, t := range tokens {
		total = total.Add(t.value)
		out[i] = t.token
	}

	return &entity.Portfolio{
		Address:     address,
		TotalValue:  total.StringFixed(2),
		Tokens:      out,
		LastUpdated: s.now().UTC(),
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
