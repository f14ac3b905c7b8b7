package entity

// NativeContractAddress marks the chain's native coin in place of a contract address.
const NativeContractAddress = "native"

// RawTokenBalance is one discovered holding before metadata and pricing.
// TokenBalance is a hex quantity in smallest units.
type RawTokenBalance struct {
	ContractAddress string `json:"contractAddress"`
	TokenBalance    string `json:"tokenBalance"`
	Error           string `json:"error,omitempty"`
}

// IsNativeContract reports whether address is the native-coin sentinel rather than a contract.
func IsNativeContract(address string) bool {
	return address == NativeContractAddress
}
