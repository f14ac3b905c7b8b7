package service

import (
	"context"
	"math"

	"portfolio_viewer/internal/app/port"
	"portfolio_viewer/internal/domain/entity"
	"portfolio_viewer/internal/pkg/metrics"
)

// MetadataService implements port.MetadataSource.
type MetadataService struct {
	api     port.TokenIndexAPI
	network entity.NetworkDefinition
	logger  port.Logger
}

func NewMetadataService(api port.TokenIndexAPI, network entity.NetworkDefinition, l port.Logger) *MetadataService {
	return &MetadataService{api: api, network: network, logger: l}
}

// GetMetadata resolves metadata for a contract, or the network's fixed metadata for the
// native sentinel. A failed lookup yields entity.FallbackMetadata with a Degraded outcome;
// a successful lookup keeps whatever fields upstream left null.
func (s *MetadataService) GetMetadata(ctx context.Context, contractAddress string) entity.MetadataResult {
	if entity.IsNativeContract(contractAddress) {
		metrics.MetadataLookupsTotal.WithLabelValues("native").Inc()
		return entity.MetadataResult{Metadata: s.network.NativeMetadata(), Outcome: entity.OK()}
	}

	res, err := s.api.GetTokenMetadata(ctx, contractAddress)
	if err != nil {
		metrics.MetadataLookupsTotal.WithLabelValues("fallback").Inc()
		s.logger.Warn("Token metadata lookup failed, using fallback", "contract", contractAddress, "error", err)
		return entity.MetadataResult{Metadata: entity.FallbackMetadata(), Outcome: entity.Degraded(err.Error())}
	}

	md := entity.TokenMetadata{Name: res.Name, Symbol: res.Symbol, Logo: res.Logo}
	if res.Decimals != nil {
		if d := *res.Decimals; d >= 0 && d <= math.MaxUint8 {
			decimals := uint8(d)
			md.Decimals = &decimals
		} else {
			s.logger.Warn("Token reports out-of-range decimals", "contract", contractAddress, "decimals", d)
		}
	}
	if md.Logo != nil && *md.Logo == "" {
		md.Logo = nil
	}

	metrics.MetadataLookupsTotal.WithLabelValues("ok").Inc()
	return entity.MetadataResult{Metadata: md, Outcome: entity.OK()}
}
