package market

// Market data aggregation across the provider cascade
// Providers are tried strictly in order; the first snapshot carrying
// any economic figure wins and no further providers are contacted
// A failed provider is logged and skipped, never retried

import (
	"context"
	"time"

	"go.uber.org/zap"

	"token-radar/internal/chains"
	"token-radar/internal/infra/log"
	"token-radar/internal/infra/ratelimit"
	"token-radar/internal/token"
)

const fallbackError = "Failed to fetch market data from all available sources"

// Aggregator walks the provider cascade for one token. An optional
// Limiter caps how many cascades may start per minute; a denied request
// gets the fallback snapshot without touching any provider.
type Aggregator struct {
	providers []Provider
	registry  *chains.Registry
	Limiter   *ratelimit.Limiter
}

func NewAggregator(registry *chains.Registry, providers ...Provider) *Aggregator {
	return &Aggregator{providers: providers, registry: registry}
}

// FetchMarketData returns a market snapshot for the token. The result
// is always non-nil; when every provider comes up empty the snapshot
// reports Success=false with a fallback error instead.
func (a *Aggregator) FetchMarketData(ctx context.Context, address, chainID string) *token.MarketSnapshot {
	chain := a.registry.Resolve(chainID)
	formatted := chains.NormalizeAddress(address, chain)

	if a.Limiter != nil && !a.Limiter.CanMakeRequest() {
		log.LogWarn("market request budget exhausted",
			zap.String("chain", chain.ID),
			zap.String("address", formatted))
		return fallbackSnapshot(formatted, chain)
	}

	for _, provider := range a.providers {
		snapshot, err := provider.Fetch(ctx, formatted, chain)
		if err != nil {
			log.LogWarn("market provider failed",
				zap.String("provider", provider.Name),
				zap.String("chain", chain.ID),
				zap.String("address", formatted),
				zap.Error(err))
			continue
		}
		if !snapshot.HasData() {
			log.LogDebug("market provider had no data",
				zap.String("provider", provider.Name),
				zap.String("chain", chain.ID),
				zap.String("address", formatted))
			continue
		}
		log.LogInfo("market data resolved",
			zap.String("provider", provider.Name),
			zap.String("source", snapshot.Source),
			zap.String("chain", chain.ID),
			zap.String("address", formatted))
		snapshot.Success = true
		return snapshot
	}

	log.LogWarn("market cascade exhausted",
		zap.String("chain", chain.ID),
		zap.String("address", formatted))
	return fallbackSnapshot(formatted, chain)
}

func fallbackSnapshot(address string, chain chains.Chain) *token.MarketSnapshot {
	return &token.MarketSnapshot{
		Address:     address,
		Chain:       chain.ID,
		Name:        "Unknown Token",
		Symbol:      "???",
		Source:      "fallback",
		LastUpdated: time.Now().UTC(),
		Success:     false,
		Error:       fallbackError,
	}
}
