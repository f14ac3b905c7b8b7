package utils

import (
	"fmt"
	"math/big"
	"strings"
)

var bigTen = big.NewInt(10)

// FormatBigInt renders amount / 10^decimals as an exact decimal string.
// The fractional part is left-padded to the full number of decimals and then
// stripped of trailing zeros, so the result never goes through a float.
// Example: amount=1234500000000000000, decimals=18 => "1.2345"
func FormatBigInt(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	if decimals == 0 {
		return amount.String()
	}

	abs := new(big.Int).Abs(amount)
	divisor := new(big.Int).Exp(bigTen, big.NewInt(int64(decimals)), nil)
	quotient, remainder := new(big.Int).QuoRem(abs, divisor, new(big.Int))

	sign := ""
	if amount.Sign() < 0 {
		sign = "-"
	}

	if remainder.Sign() == 0 {
		return sign + quotient.String()
	}

	frac := remainder.String()
	if pad := int(decimals) - len(frac); pad > 0 {
		frac = strings.Repeat("0", pad) + frac
	}
	frac = strings.TrimRight(frac, "0")

	return sign + quotient.String() + "." + frac
}

// ParseBigInt accepts either a 0x-prefixed hex quantity (leading zeros allowed,
// as returned by token balance endpoints) or a base-10 integer string.
// An empty "0x" is treated as zero. Quantities are unsigned: a sign in either form is rejected.
func ParseBigInt(s string) (*big.Int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, fmt.Errorf("empty integer string")
	}
	if hasSign(trimmed) {
		return nil, fmt.Errorf("signed integer %q is not a quantity", s)
	}

	if strings.HasPrefix(trimmed, "0x") || strings.HasPrefix(trimmed, "0X") {
		digits := trimmed[2:]
		if digits == "" {
			return new(big.Int), nil
		}
		if hasSign(digits) {
			return nil, fmt.Errorf("invalid hex quantity %q", s)
		}
		v, ok := new(big.Int).SetString(digits, 16)
		if !ok {
			return nil, fmt.Errorf("invalid hex quantity %q", s)
		}
		return v, nil
	}

	v, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("invalid decimal integer %q", s)
	}
	return v, nil
}

func hasSign(s string) bool {
	return s[0] == '-' || s[0] == '+'
}
