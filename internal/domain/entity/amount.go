package entity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"

	"portfolio_viewer/internal/pkg/utils"
)

// Amount is a non-negative on-chain quantity in the token's smallest unit.
// The zero value is a valid zero amount.
type Amount struct {
	v *big.Int
}

// NewAmount copies v into an Amount. A nil v yields zero.
func NewAmount(v *big.Int) Amount {
	if v == nil {
		return Amount{}
	}
	return Amount{v: new(big.Int).Set(v)}
}

// ParseAmount reads a hex quantity ("0x...", leading zeros allowed) or a base-10 string.
func ParseAmount(s string) (Amount, error) {
	v, err := utils.ParseBigInt(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{v: v}, nil
}

func (a Amount) big() *big.Int {
	if a.v == nil {
		return new(big.Int)
	}
	return a.v
}

// Int returns a copy of the underlying integer.
func (a Amount) IsZero() bool {
	return a.big().Sign() == 0
}

func (a Amount) Equal(other Amount) bool {
	return a.big().Cmp(other.big()) == 0
}

// Hex encodes the amount as a minimal 0x-prefixed quantity.
func (a Amount) Hex() string {
	return hexutil.EncodeBig(a.big())
}

// String returns the base-10 representation in smallest units.
func (a Amount) String() string {
	return a.big().String()
}

// Format returns the exact human-readable value scaled by decimals, e.g. "1.5".
func (a Amount) Format(decimals uint8) string {
	return utils.FormatBigInt(a.big(), decimals)
}

// Decimal returns the scaled value without loss of precision.
func (a Amount) Decimal(decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(a.big(), -int32(decimals))
}
