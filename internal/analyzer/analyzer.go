package analyzer

// Full token analysis pipeline
// Holder distribution, market data and whale activity are fetched
// concurrently, then the derived layers (risk, insights) run on top
// An analysis never fails outright: each branch degrades on its own

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"token-radar/internal/activity"
	"token-radar/internal/chains"
	"token-radar/internal/infra/cache"
	"token-radar/internal/insights"
	"token-radar/internal/risk"
	"token-radar/internal/token"
)

// HolderSource produces holder-distribution snapshots.
type HolderSource interface {
	FetchHolderDistribution(ctx context.Context, address, chainID string) *token.Snapshot
}

// MarketSource produces market snapshots.
type MarketSource interface {
	FetchMarketData(ctx context.Context, address, chainID string) *token.MarketSnapshot
}

// ActivitySource produces whale-activity summaries.
type ActivitySource interface {
	WhaleActivity(ctx context.Context, address, chainID string) activity.WhaleAnalysis
}

// Report is everything one analysis produced.
type Report struct {
	Token    *token.Snapshot
	Market   *token.MarketSnapshot
	Risk     risk.Assessment
	Insights insights.Insights
	Whale    activity.WhaleAnalysis
	MapURL   string
}

// Options tunes the pipeline.
type Options struct {
	Budget    time.Duration // wall-clock limit for one analysis
	TokenTTL  time.Duration
	MarketTTL time.Duration
}

// Analyzer runs analyses and memoizes successful fetches.
type Analyzer struct {
	holders  HolderSource
	market   MarketSource
	activity ActivitySource
	registry *chains.Registry

	tokenCache  *cache.Cache
	marketCache *cache.Cache
	opts        Options
}

func New(holders HolderSource, market MarketSource, act ActivitySource, registry *chains.Registry, opts Options) *Analyzer {
	if opts.Budget <= 0 {
		opts.Budget = 30 * time.Second
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 5 * time.Minute
	}
	if opts.MarketTTL <= 0 {
		opts.MarketTTL = 2 * time.Minute
	}
	return &Analyzer{
		holders:     holders,
		market:      market,
		activity:    act,
		registry:    registry,
		tokenCache:  cache.New(opts.TokenTTL),
		marketCache: cache.New(opts.MarketTTL),
		opts:        opts,
	}
}

// Analyze produces a full report for one token. The three fetches run
// concurrently within the analysis budget; a branch that comes back
// empty leaves its fallback snapshot in the report instead of sinking
// the whole analysis.
func (a *Analyzer) Analyze(ctx context.Context, address, chainID string) *Report {
	chain := a.registry.Resolve(chainID)
	normalized := chains.NormalizeAddress(address, chain)
	key := chain.ID + ":" + normalized

	ctx, cancel := context.WithTimeout(ctx, a.opts.Budget)
	defer cancel()

	report := &Report{MapURL: chains.MapURL(normalized, chain)}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		report.Token = a.fetchHolders(groupCtx, key, normalized, chain.ID)
		return nil
	})
	group.Go(func() error {
		report.Market = a.fetchMarket(groupCtx, key, normalized, chain.ID)
		return nil
	})
	if a.activity != nil {
		group.Go(func() error {
			report.Whale = a.activity.WhaleActivity(groupCtx, normalized, chain.ID)
			return nil
		})
	}
	group.Wait()

	report.Risk = risk.Assess(report.Token, report.Market)
	report.Insights = insights.Generate(report.Token, report.Market, report.Risk)
	return report
}

// fetchHolders memoizes successful distribution snapshots. Failures
// are never cached so the next request retries the provider.
func (a *Analyzer) fetchHolders(ctx context.Context, key, address, chainID string) *token.Snapshot {
	if cached, ok := a.tokenCache.Get(key); ok {
		return cached.(*token.Snapshot)
	}
	snapshot := a.holders.FetchHolderDistribution(ctx, address, chainID)
	if snapshot != nil && snapshot.Success {
		a.tokenCache.Set(key, snapshot, 0)
	}
	return snapshot
}

func (a *Analyzer) fetchMarket(ctx context.Context, key, address, chainID string) *token.MarketSnapshot {
	if cached, ok := a.marketCache.Get(key); ok {
		return cached.(*token.MarketSnapshot)
	}
	snapshot := a.market.FetchMarketData(ctx, address, chainID)
	if snapshot != nil && snapshot.Success {
		a.marketCache.Set(key, snapshot, 0)
	}
	return snapshot
}
