package entity

// NetworkDefinition holds the static facts of a chain the viewer can serve.
type NetworkDefinition struct {
	ChainID           uint64 `json:"chainId" yaml:"chainId"`
	Name              string `json:"name" yaml:"name"`
	Identifier        string `json:"identifier" yaml:"identifier"`
	NativeSymbol      string `json:"nativeSymbol" yaml:"nativeSymbol"`
	NativeName        string `json:"nativeName" yaml:"nativeName"`
	NativeLogo        string `json:"nativeLogo,omitempty" yaml:"nativeLogo,omitempty"`
	Decimals          uint8  `json:"decimals" yaml:"decimals"`
	AlchemyNetwork    string `json:"alchemyNetwork" yaml:"alchemyNetwork"`       // subdomain, e.g. "eth-mainnet"
	CoinGeckoPlatform string `json:"coingeckoPlatform" yaml:"coingeckoPlatform"` // asset platform id for token prices
	CoinGeckoNativeID string `json:"coingeckoNativeId" yaml:"coingeckoNativeId"` // coin id for the native price
	BlockExplorerURL  string `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
}

// NativeMetadata is the fixed metadata of the chain's native coin.
func (n NetworkDefinition) NativeMetadata() TokenMetadata {
	name, symbol, decimals := n.NativeName, n.NativeSymbol, n.Decimals
	md := TokenMetadata{Name: &name, Symbol: &symbol, Decimals: &decimals}
	if n.NativeLogo != "" {
		logo := n.NativeLogo
		md.Logo = &logo
	}
	return md
}
