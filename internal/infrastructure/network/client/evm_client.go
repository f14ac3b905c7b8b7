package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"portfolio_viewer/internal/domain/entity"
)

// EVMClient reads ERC-20 state and native balances straight from a node,
// independently of the indexed balance source.
type EVMClient struct {
	ethClient      *ethclient.Client
	rpcCallTimeout time.Duration
}

// Minimal ERC-20 ABI. symbol/name are declared as string; tokens that return
// bytes32 instead are decoded by hand.
const erc20ABI = `[
{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

var (
	parsedERC20ABI  abi.ABI
	parsedERC20Once sync.Once

	errEmptyReturnData = errors.New("contract returned no data")
)

func initParsedERC20ABI() {
	parsedERC20Once.Do(func() {
		var err error
		parsedERC20ABI, err = abi.JSON(strings.NewReader(erc20ABI))
		if err != nil {
			panic(fmt.Sprintf("failed to parse ERC20 ABI: %v", err))
		}
	})
}

// NewEVMClient dials the first reachable URL out of rpcURLs.
func NewEVMClient(netDef entity.NetworkDefinition, rpcURLs []string, connectionTimeout, rpcCallTimeout time.Duration) (*EVMClient, error) {
	initParsedERC20ABI()
	if len(rpcURLs) == 0 {
		return nil, fmt.Errorf("no RPC URLs configured for network %s", netDef.Name)
	}

	var lastErr error
	for _, rpcURL := range rpcURLs {
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		client, err := ethclient.DialContext(ctx, rpcURL)
		cancel()

		if err == nil {
			return &EVMClient{ethClient: client, rpcCallTimeout: rpcCallTimeout}, nil
		}
		lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
	}

	return nil, fmt.Errorf("all RPC connection attempts failed for network %s: %w", netDef.Name, lastErr)
}

// GetNativeBalance returns the owner's native coin balance at the latest block.
func (c *EVMClient) GetNativeBalance(ctx context.Context, owner string) (*big.Int, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	balance, err := c.ethClient.BalanceAt(callCtx, common.HexToAddress(owner), nil)
	if err != nil {
		return nil, fmt.Errorf("eth_getBalance %s: %w", owner, err)
	}
	return balance, nil
}

// TokenSymbol calls symbol() on the contract.
func (c *EVMClient) TokenSymbol(ctx context.Context, contract string) (string, error) {
	return c.callString(ctx, contract, "symbol")
}

// TokenName calls name() on the contract.
func (c *EVMClient) TokenName(ctx context.Context, contract string) (string, error) {
	return c.callString(ctx, contract, "name")
}

// TokenBalance calls balanceOf(owner) on the contract.
func (c *EVMClient) TokenBalance(ctx context.Context, contract, owner string) (*big.Int, error) {
	raw, err := c.call(ctx, contract, "balanceOf", common.HexToAddress(owner))
	if err != nil {
		return nil, err
	}

	unpacked, err := parsedERC20ABI.Unpack("balanceOf", raw)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack balanceOf result from %s: %w. Raw: %s", contract, err, hexutil.Encode(raw))
	}
	if len(unpacked) == 0 {
		return nil, fmt.Errorf("balanceOf unpack returned no data for %s", contract)
	}
	balance, ok := unpacked[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected balanceOf result type %T for %s", unpacked[0], contract)
	}
	return balance, nil
}

func (c *EVMClient) Close() {
	c.ethClient.Close()
}

func (c *EVMClient) callString(ctx context.Context, contract, method string) (string, error) {
	raw, err := c.call(ctx, contract, method)
	if err != nil {
		return "", err
	}

	unpacked, err := parsedERC20ABI.Unpack(method, raw)
	if err == nil && len(unpacked) == 1 {
		if s, ok := unpacked[0].(string); ok {
			return s, nil
		}
	}

	// Pre-standard tokens (MKR, SAI) return a right-padded bytes32.
	if len(raw) == 32 {
		return string(bytes.TrimRight(raw, "\x00")), nil
	}
	return "", fmt.Errorf("failed to decode %s() result from %s: Raw: %s", method, contract, hexutil.Encode(raw))
}

func (c *EVMClient) call(ctx context.Context, contract, method string, args ...interface{}) ([]byte, error) {
	data, err := parsedERC20ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	callArgs := map[string]interface{}{
		"to":   common.HexToAddress(contract),
		"data": hexutil.Bytes(data),
	}

	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	var result hexutil.Bytes
	if err := c.rawClient().CallContext(callCtx, &result, "eth_call", callArgs, "latest"); err != nil {
		return nil, fmt.Errorf("eth_call %s() on %s: %w", method, contract, err)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%s() on %s: %w", method, contract, errEmptyReturnData)
	}
	return result, nil
}

func (c *EVMClient) rawClient() *rpc.Client {
	return c.ethClient.Client()
}
