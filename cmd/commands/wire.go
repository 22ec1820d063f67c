package commands

// Shared wiring for the bot and analyze commands
// Builds the chain registry, provider clients, aggregators and the
// analyzer from one loaded config

import (
	"time"

	"token-radar/internal/activity"
	"token-radar/internal/amm"
	"token-radar/internal/analyzer"
	"token-radar/internal/chains"
	"token-radar/internal/clients_api/bubblemaps"
	"token-radar/internal/clients_api/coingecko"
	"token-radar/internal/clients_api/covalent"
	"token-radar/internal/clients_api/defillama"
	"token-radar/internal/clients_api/etherscan"
	"token-radar/internal/clients_api/jupiter"
	"token-radar/internal/holders"
	"token-radar/internal/infra/config"
	"token-radar/internal/infra/ratelimit"
	"token-radar/internal/market"
	"token-radar/internal/onchain"
)

func buildAnalyzer(cfg *config.Config) (*analyzer.Analyzer, *chains.Registry) {
	registry := chains.NewRegistry(cfg.App.DefaultChain, cfg.App.RPCUrls)

	holdersAggregator := holders.NewAggregator(
		bubblemaps.NewClient(bubblemaps.WithRequestsPerMinute(cfg.Providers.HoldersPerMinute)),
		registry)

	resolver := amm.NewResolver(registry, func(chain chains.Chain) amm.PairReader {
		return onchain.NewEVMClient(chain.RPCURL)
	})

	solChain := registry.Resolve("sol")
	dex := market.FromDex(market.DexDeps{
		Resolver: resolver,
		EVMReader: func(chain chains.Chain) market.MetadataReader {
			return onchain.NewEVMClient(chain.RPCURL)
		},
		Solana:  onchain.NewSolanaClient(solChain.RPCURL),
		Jupiter: jupiter.NewClient(),
	})

	marketAggregator := market.NewAggregator(registry,
		market.FromDefiLlama(defillama.NewClient()),
		market.FromCovalent(covalent.NewClient(cfg.Providers.CovalentAPIKey)),
		market.FromCoinGecko(coingecko.NewClient(cfg.Providers.CoingeckoAPIKey)),
		dex,
	)
	if cfg.Providers.MarketPerMinute > 0 {
		marketAggregator.Limiter = ratelimit.PerMinute(cfg.Providers.MarketPerMinute)
	}

	explorers := map[string]activity.ExplorerAPI{
		"eth": etherscan.NewClient("etherscan", "https://api.etherscan.io/api", cfg.Providers.EtherscanAPIKey),
		"bsc": etherscan.NewClient("bscscan", "https://api.bscscan.com/api", cfg.Providers.BscscanAPIKey),
	}
	activityService := activity.NewService(registry, explorers)

	a := analyzer.New(holdersAggregator, marketAggregator, activityService, registry, analyzer.Options{
		Budget:    time.Duration(cfg.App.AnalysisBudget) * time.Second,
		TokenTTL:  time.Duration(cfg.App.TokenCacheTTL) * time.Second,
		MarketTTL: time.Duration(cfg.App.MarketCacheTTL) * time.Second,
	})
	return a, registry
}
