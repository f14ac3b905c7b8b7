package service

import (
	"context"
	"fmt"
	"math/big"

	"golang.org/x/sync/errgroup"

	"portfolio_viewer/internal/app/port"
	"portfolio_viewer/internal/domain/entity"
	"portfolio_viewer/internal/pkg/metrics"
)

// VerificationService implements port.Verifier against a node.
type VerificationService struct {
	reader  port.ChainReader
	network entity.NetworkDefinition
	logger  port.Logger
}

func NewVerificationService(reader port.ChainReader, network entity.NetworkDefinition, l port.Logger) *VerificationService {
	return &VerificationService{reader: reader, network: network, logger: l}
}

// Verify re-reads the holding on-chain and compares it with the claim. claimedBalance is
// a hex or base-10 quantity. Any read failure yields entity.FailedVerification.
func (s *VerificationService) Verify(ctx context.Context, contractAddress, ownerAddress, claimedBalance, claimedSymbol, claimedName string) entity.VerificationResult {
	claim := entity.Claim{Balance: claimedBalance, Symbol: claimedSymbol, Name: claimedName}

	claimed, err := entity.ParseAmount(claimedBalance)
	if err != nil {
		return s.fail(contractAddress, claim, fmt.Errorf("invalid claimed balance: %w", err))
	}
	claim.Balance = claimed.String()

	var result entity.VerificationResult
	if entity.IsNativeContract(contractAddress) {
		result, err = s.verifyNative(ctx, ownerAddress, claim, claimed)
	} else {
		result, err = s.verifyERC20(ctx, contractAddress, ownerAddress, claim, claimed)
	}
	if err != nil {
		return s.fail(contractAddress, claim, err)
	}

	if result.Verified {
		metrics.VerificationsTotal.WithLabelValues("verified").Inc()
	} else {
		metrics.VerificationsTotal.WithLabelValues("mismatch").Inc()
		s.logger.Debug("On-chain state differs from indexed claim",
			"contract", contractAddress,
			"symbolMatch", result.SymbolMatch,
			"balanceMatch", result.BalanceMatch,
			"claimedBalance", result.AlchemyBalance,
			"onChainBalance", result.Balance)
	}
	return result
}

// verifyNative reads the native balance; the symbol and name are the network's own.
func (s *VerificationService) verifyNative(ctx context.Context, owner string, claim entity.Claim, claimed entity.Amount) (entity.VerificationResult, error) {
	onChain, err := s.reader.GetNativeBalance(ctx, owner)
	if err != nil {
		return entity.VerificationResult{}, err
	}
	return entity.NewVerificationResult(claim, s.network.NativeSymbol, s.network.NativeName, entity.NewAmount(onChain), claimed), nil
}

func (s *VerificationService) verifyERC20(ctx context.Context, contract, owner string, claim entity.Claim, claimed entity.Amount) (entity.VerificationResult, error) {
	var (
		symbol, name string
		onChain      *big.Int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		symbol, err = s.reader.TokenSymbol(gctx, contract)
		return err
	})
	g.Go(func() error {
		var err error
		onChain, err = s.reader.TokenBalance(gctx, contract, owner)
		return err
	})
	g.Go(func() error {
		var err error
		name, err = s.reader.TokenName(gctx, contract)
		return err
	})
	if err := g.Wait(); err != nil {
		return entity.VerificationResult{}, err
	}

	return entity.NewVerificationResult(claim, symbol, name, entity.NewAmount(onChain), claimed), nil
}

func (s *VerificationService) fail(contract string, claim entity.Claim, err error) entity.VerificationResult {
	metrics.VerificationsTotal.WithLabelValues("error").Inc()
	s.logger.Warn("Token verification failed", "contract", contract, "error", err)
	return entity.FailedVerification(claim, err)
}
