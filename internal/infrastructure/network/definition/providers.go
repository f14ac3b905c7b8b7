package networkdefinition

import (
	"sort"
	"strconv"
	"strings"

	"portfolio_viewer/internal/app/port"
	"portfolio_viewer/internal/domain/entity"
)

const ethLogo = "https://assets.coingecko.com/coins/images/279/small/ethereum.png?1747033579"

// Networks served by both the balance indexer and the price feed.
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.NetworkDefinition{
		ChainID:           1,
		Name:              "Ethereum Mainnet",
		Identifier:        "ethereum",
		NativeSymbol:      "ETH",
		NativeName:        "Ethereum",
		NativeLogo:        ethLogo,
		Decimals:          18,
		AlchemyNetwork:    "eth-mainnet",
		CoinGeckoPlatform: "ethereum",
		CoinGeckoNativeID: "ethereum",
		BlockExplorerURL:  "https://etherscan.io",
	}
	Arbitrum = entity.NetworkDefinition{
		ChainID:           42161,
		Name:              "Arbitrum One",
		Identifier:        "arbitrum",
		NativeSymbol:      "ETH",
		NativeName:        "Ethereum",
		NativeLogo:        ethLogo,
		Decimals:          18,
		AlchemyNetwork:    "arb-mainnet",
		CoinGeckoPlatform: "arbitrum-one",
		CoinGeckoNativeID: "ethereum",
		BlockExplorerURL:  "https://arbiscan.io",
	}
	Optimism = entity.NetworkDefinition{
		ChainID:           10,
		Name:              "Optimism",
		Identifier:        "optimism",
		NativeSymbol:      "ETH",
		NativeName:        "Ethereum",
		NativeLogo:        ethLogo,
		Decimals:          18,
		AlchemyNetwork:    "opt-mainnet",
		CoinGeckoPlatform: "optimistic-ethereum",
		CoinGeckoNativeID: "ethereum",
		BlockExplorerURL:  "https://optimistic.etherscan.io",
	}
	Base = entity.NetworkDefinition{
		ChainID:           8453,
		Name:              "Base",
		Identifier:        "base",
		NativeSymbol:      "ETH",
		NativeName:        "Ethereum",
		NativeLogo:        ethLogo,
		Decimals:          18,
		AlchemyNetwork:    "base-mainnet",
		CoinGeckoPlatform: "base",
		CoinGeckoNativeID: "ethereum",
		BlockExplorerURL:  "https://basescan.org",
	}
	Polygon = entity.NetworkDefinition{
		ChainID:           137,
		Name:              "Polygon",
		Identifier:        "polygon",
		NativeSymbol:      "POL",
		NativeName:        "Polygon Ecosystem Token",
		Decimals:          18,
		AlchemyNetwork:    "polygon-mainnet",
		CoinGeckoPlatform: "polygon-pos",
		CoinGeckoNativeID: "polygon-ecosystem-token",
		BlockExplorerURL:  "https://polygonscan.com",
	}
)

// NetworkDefinitionProvider looks up the static network definitions.
type NetworkDefinitionProvider struct {
	logger  port.Logger
	allDefs map[string]entity.NetworkDefinition
}

func NewNetworkDefinitionProvider(log port.Logger) *NetworkDefinitionProvider {
	defs := []entity.NetworkDefinition{Ethereum, Arbitrum, Optimism, Base, Polygon}
	p := &NetworkDefinitionProvider{
		logger:  log,
		allDefs: make(map[string]entity.NetworkDefinition, len(defs)),
	}
	for _, def := range defs {
		p.allDefs[def.Identifier] = def
	}
	return p
}

// GetAllNetworkDefinitions returns every known network ordered by chain ID.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	out := make([]entity.NetworkDefinition, 0, len(p.allDefs))
	for _, def := range p.allDefs {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChainID < out[j].ChainID })
	return out
}

// GetNetworkDefinitionByName resolves an identifier such as "ethereum" (case-insensitive)
// or a decimal chain ID such as "8453".
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	key := strings.ToLower(strings.TrimSpace(identifier))
	def, ok := p.allDefs[key]
	if !ok {
		if chainID, err := strconv.ParseUint(key, 10, 64); err == nil {
			def, ok = p.GetNetworkDefinitionByChainID(chainID)
		}
	}
	if !ok {
		p.logger.Warn("Unknown network identifier", "identifier", identifier)
	}
	return def, ok
}

// GetNetworkDefinitionByChainID resolves a network by chain ID.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	for _, def := range p.allDefs {
		if def.ChainID == chainID {
			return def, true
		}
	}
	return entity.NetworkDefinition{}, false
}
