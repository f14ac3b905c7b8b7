package entity

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// IsValidAddress reports whether s is a 0x-prefixed 20-byte hex address.
// All-lowercase and all-uppercase forms are accepted as-is; mixed case must
// carry a correct EIP-55 checksum.
func IsValidAddress(s string) bool {
	if len(s) != 2+2*common.AddressLength || !strings.HasPrefix(s, "0x") {
		return false
	}
	if !common.IsHexAddress(s) {
		return false
	}

	body := s[2:]
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return true
	}
	return common.HexToAddress(s).Hex() == s
}

// NormalizeAddress lowercases an address for use as a lookup key.
func NormalizeAddress(s string) string {
	return strings.ToLower(s)
}
