package port

import (
	"context"
	"math/big"

	"portfolio_viewer/internal/domain/entity"
)

// ChainReader reads contract state directly from a node.
type ChainReader interface {
	GetNativeBalance(ctx context.Context, owner string) (*big.Int, error)
	TokenSymbol(ctx context.Context, contract string) (string, error)
	TokenName(ctx context.Context, contract string) (string, error)
	TokenBalance(ctx context.Context, contract, owner string) (*big.Int, error)
}

// NetworkDefinitionProvider resolves static network definitions.
type NetworkDefinitionProvider interface {
	GetAllNetworkDefinitions() []entity.NetworkDefinition
	GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool)
}
