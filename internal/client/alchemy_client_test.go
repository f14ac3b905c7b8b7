package client

import (
	"context"
	stdjson "encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"portfolio_viewer/internal/entity"
	"portfolio_viewer/internal/pkg/testutil"
)

const ownerAddress = "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"

func newAlchemyTestClient(t *testing.T, handler testutil.RPCHandler) (*AlchemyClient, *testutil.JSONRPCServer) {
	t.Helper()
	srv := testutil.NewJSONRPCServer(t, handler)
	c, err := NewAlchemyClient(context.Background(), srv.URL, 2*time.Second, 100, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, srv
}

func TestAlchemyGetTokenBalances(t *testing.T) {
	c, srv := newAlchemyTestClient(t, func(method string, params []stdjson.RawMessage) (interface{}, *testutil.RPCError) {
		require.Equal(t, "alchemy_getTokenBalances", method)
		require.Len(t, params, 3)

		var owner, spec string
		require.NoError(t, stdjson.Unmarshal(params[0], &owner))
		require.NoError(t, stdjson.Unmarshal(params[1], &spec))
		assert.Equal(t, ownerAddress, owner)
		assert.Equal(t, "erc20", spec)

		var opts entity.TokenBalancesOptions
		require.NoError(t, stdjson.Unmarshal(params[2], &opts))
		assert.Equal(t, 100, opts.MaxCount)
		assert.Equal(t, "page-2", opts.PageKey)

		return map[string]interface{}{
			"address": ownerAddress,
			"tokenBalances": []map[string]interface{}{
				{"contractAddress": usdtAddress, "tokenBalance": "0x00000000000000000000000000000000000000000000000000000002541536cc", "error": nil},
				{"contractAddress": "0xbad", "tokenBalance": nil, "error": "execution reverted"},
			},
		}, nil
	})

	res, err := c.GetTokenBalances(context.Background(), ownerAddress, "page-2")
	require.NoError(t, err)
	require.Len(t, res.TokenBalances, 2)
	assert.Equal(t, usdtAddress, res.TokenBalances[0].ContractAddress)
	require.NotNil(t, res.TokenBalances[0].TokenBalance)
	assert.Nil(t, res.TokenBalances[1].TokenBalance)
	require.NotNil(t, res.TokenBalances[1].Error)
	assert.Equal(t, "execution reverted", *res.TokenBalances[1].Error)
	assert.Empty(t, res.PageKey)
	assert.Equal(t, 1, srv.Calls("alchemy_getTokenBalances"))
}

func TestAlchemyGetTokenBalancesRPCError(t *testing.T) {
	c, _ := newAlchemyTestClient(t, func(method string, params []stdjson.RawMessage) (interface{}, *testutil.RPCError) {
		return nil, &testutil.RPCError{Code: -32602, Message: "invalid address"}
	})

	_, err := c.GetTokenBalances(context.Background(), ownerAddress, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid address")
}

func TestAlchemyGetTokenMetadata(t *testing.T) {
	c, _ := newAlchemyTestClient(t, func(method string, params []stdjson.RawMessage) (interface{}, *testutil.RPCError) {
		require.Equal(t, "alchemy_getTokenMetadata", method)
		return map[string]interface{}{
			"name":     "Tether USD",
			"symbol":   "USDT",
			"decimals": 6,
			"logo":     nil,
		}, nil
	})

	md, err := c.GetTokenMetadata(context.Background(), usdtAddress)
	require.NoError(t, err)
	require.NotNil(t, md.Name)
	assert.Equal(t, "Tether USD", *md.Name)
	require.NotNil(t, md.Decimals)
	assert.Equal(t, 6, *md.Decimals)
	assert.Nil(t, md.Logo)
}

func TestAlchemyGetNativeBalance(t *testing.T) {
	c, _ := newAlchemyTestClient(t, func(method string, params []stdjson.RawMessage) (interface{}, *testutil.RPCError) {
		require.Equal(t, "eth_getBalance", method)
		var block string
		require.NoError(t, stdjson.Unmarshal(params[1], &block))
		assert.Equal(t, "latest", block)
		return "0xde0b6b3a7640000", nil
	})

	bal, err := c.GetNativeBalance(context.Background(), ownerAddress)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", bal.String())
}
