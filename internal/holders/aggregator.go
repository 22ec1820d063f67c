package holders

// Holder Distribution Aggregator
// Tries the map-data endpoint, then map-metadata, and always returns a
// snapshot: total failure produces Success=false with zeroed stats
// Nothing below FetchHolderDistribution may surface an error

import (
	"context"
	"time"

	"go.uber.org/zap"

	"token-radar/internal/chains"
	"token-radar/internal/infra/log"
	"token-radar/internal/token"
)

const fallbackError = "Failed to fetch holder distribution from analytics API"

// MapAPI is the narrow surface of the analytics client the aggregator
// needs; tests inject fakes.
type MapAPI interface {
	MapData(ctx context.Context, address, chain string) ([]byte, error)
	MapMetadata(ctx context.Context, address, chain string) ([]byte, error)
	CanMakeRequest() bool
}

type Aggregator struct {
	api      MapAPI
	registry *chains.Registry
}

func NewAggregator(api MapAPI, registry *chains.Registry) *Aggregator {
	return &Aggregator{api: api, registry: registry}
}

// FetchHolderDistribution returns a normalized snapshot for the token.
// It never fails: provider errors are logged and absorbed, and the
// caller always receives a snapshot.
func (a *Aggregator) FetchHolderDistribution(ctx context.Context, address, chainID string) *token.Snapshot {
	chain := a.registry.Resolve(chainID)
	normalized := chains.NormalizeAddress(address, chain)

	logger := log.Logger.With(
		zap.String("address", normalized),
		zap.String("chain", chain.ID),
	)

	if !a.api.CanMakeRequest() {
		logger.Warn("Holder analytics rate limit exhausted, skipping provider")
		return a.fallbackSnapshot(normalized, chain)
	}

	if body, err := a.api.MapData(ctx, normalized, chain.ID); err != nil {
		logger.Warn("map-data request failed", zap.Error(err))
	} else if snapshot, ok := decodeMapData(body, normalized, chain); ok {
		logger.Debug("Holder distribution from map-data",
			zap.Int("holders", snapshot.Stats.HoldersCount))
		return snapshot
	} else {
		logger.Warn("Unrecognized map-data response format",
			zap.Int("body_bytes", len(body)))
	}

	if body, err := a.api.MapMetadata(ctx, normalized, chain.ID); err != nil {
		logger.Warn("map-metadata request failed", zap.Error(err))
	} else if snapshot, ok := decodeMetadata(body, normalized, chain); ok {
		logger.Debug("Holder distribution from map-metadata")
		return snapshot
	} else {
		logger.Warn("Unrecognized map-metadata response format")
	}

	return a.fallbackSnapshot(normalized, chain)
}

func (a *Aggregator) fallbackSnapshot(address string, chain chains.Chain) *token.Snapshot {
	return &token.Snapshot{
		Identity: token.Identity{
			Address:     address,
			Chain:       chain.ID,
			Name:        "Unknown Token",
			Symbol:      "???",
			Decimals:    chain.DefaultDecimals,
			TotalSupply: "0",
		},
		Stats:      token.DistributionStats{},
		TopHolders: []token.Holder{},
		UpdatedAt:  time.Now().UTC(),
		Success:    false,
		Error:      fallbackError,
	}
}
