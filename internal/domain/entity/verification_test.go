package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVerificationResult(t *testing.T) {
	claimed, err := ParseAmount("0x2541536cc")
	require.NoError(t, err)
	claim := Claim{Balance: claimed.String(), Symbol: "USDT", Name: "Tether USD"}

	ok := NewVerificationResult(claim, "USDT", "Tether USD", claimed, claimed)
	assert.True(t, ok.Verified)
	assert.True(t, ok.SymbolMatch)
	assert.True(t, ok.BalanceMatch)
	assert.Equal(t, "10000611020", ok.Balance)
	assert.Equal(t, "10000611020", ok.AlchemyBalance)
	assert.Equal(t, "Tether USD", ok.AlchemyName)

	offByOne, err := ParseAmount("10000611021")
	require.NoError(t, err)
	mismatch := NewVerificationResult(claim, "USDT", "Tether USD", offByOne, claimed)
	assert.False(t, mismatch.Verified)
	assert.True(t, mismatch.SymbolMatch)
	assert.False(t, mismatch.BalanceMatch)

	renamed := NewVerificationResult(claim, "USDT.e", "Tether USD", claimed, claimed)
	assert.False(t, renamed.Verified)
	assert.False(t, renamed.SymbolMatch)
}

func TestFailedVerification(t *testing.T) {
	res := FailedVerification(Claim{Balance: "42", Symbol: "DAI", Name: "Dai"}, errors.New("execution reverted"))

	assert.False(t, res.Verified)
	assert.Equal(t, "N/A", res.Symbol)
	assert.Equal(t, "Unknown Token", res.Name)
	assert.Equal(t, "0", res.Balance)
	assert.Equal(t, "42", res.AlchemyBalance)
	assert.Equal(t, "DAI", res.AlchemySymbol)
	assert.Equal(t, "execution reverted", res.Error)
}
