package client

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"portfolio_viewer/internal/entity"
)

const (
	methodGetTokenBalances = "alchemy_getTokenBalances"
	methodGetTokenMetadata = "alchemy_getTokenMetadata"
	methodGetBalance       = "eth_getBalance"

	// erc20 asks Alchemy for every ERC-20 the address has ever held.
	tokenSpecERC20 = "erc20"
)

// AlchemyClient talks to the Alchemy enhanced JSON-RPC API.
type AlchemyClient struct {
	rpcClient *rpc.Client
	pageSize  int
	logger    *zap.Logger
}

// NewAlchemyClient dials endpointURL (which already embeds the API key).
// rpc.DialOptions over HTTP does not connect until the first call.
func NewAlchemyClient(ctx context.Context, endpointURL string, timeout time.Duration, pageSize int, logger *zap.Logger) (*AlchemyClient, error) {
	httpClient := &http.Client{Timeout: timeout}
	rpcClient, err := rpc.DialOptions(ctx, endpointURL, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to dial alchemy endpoint: %w", err)
	}
	return &AlchemyClient{
		rpcClient: rpcClient,
		pageSize:  pageSize,
		logger:    logger.Named("AlchemyClient"),
	}, nil
}

// GetTokenBalances fetches one page of ERC-20 balances. An empty pageKey requests the first page.
func (c *AlchemyClient) GetTokenBalances(ctx context.Context, owner, pageKey string) (*entity.TokenBalancesResult, error) {
	opts := entity.TokenBalancesOptions{PageKey: pageKey, MaxCount: c.pageSize}

	var result entity.TokenBalancesResult
	if err := c.rpcClient.CallContext(ctx, &result, methodGetTokenBalances, owner, tokenSpecERC20, opts); err != nil {
		c.logger.Error("alchemy_getTokenBalances failed", zap.String("owner", owner), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", methodGetTokenBalances, err)
	}

	c.logger.Debug("Fetched token balances page",
		zap.String("owner", owner),
		zap.Int("count", len(result.TokenBalances)),
		zap.Bool("hasMore", result.PageKey != ""))
	return &result, nil
}

// GetTokenMetadata fetches name, symbol, decimals and logo for a contract.
func (c *AlchemyClient) GetTokenMetadata(ctx context.Context, contractAddress string) (*entity.TokenMetadataResult, error) {
	var result entity.TokenMetadataResult
	if err := c.rpcClient.CallContext(ctx, &result, methodGetTokenMetadata, contractAddress); err != nil {
		return nil, fmt.Errorf("%s %s: %w", methodGetTokenMetadata, contractAddress, err)
	}
	return &result, nil
}

// GetNativeBalance returns the owner's native coin balance at the latest block.
func (c *AlchemyClient) GetNativeBalance(ctx context.Context, owner string) (*big.Int, error) {
	var result hexutil.Big
	if err := c.rpcClient.CallContext(ctx, &result, methodGetBalance, owner, "latest"); err != nil {
		return nil, fmt.Errorf("%s %s: %w", methodGetBalance, owner, err)
	}
	return result.ToInt(), nil
}

func (c *AlchemyClient) Close() {
	c.rpcClient.Close()
}
