package amm

// AMM price resolver: derives a spot price from constant-product pool
// reserves when no priced-data provider answers
// Probes the chain's factories in configured order, native pair first,
// stable pair second; the first computable quote wins
// All reserve arithmetic is fixed-point with explicit decimals

import (
	"context"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"token-radar/internal/chains"
	"token-radar/internal/infra/log"
)

const (
	nativeDecimals = 18
	// Reference stablecoins on the configured chains are 6-decimal
	// tokens.
	stableDecimals = 6
)

// PairReader is the read-only on-chain surface the resolver needs.
type PairReader interface {
	TokenDecimals(ctx context.Context, tokenAddr string) (int, error)
	GetPair(ctx context.Context, factory, tokenA, tokenB string) (string, error)
	PairTokens(ctx context.Context, pair string) (token0, token1 string, err error)
	GetReserves(ctx context.Context, pair string) (reserve0, reserve1 *big.Int, err error)
}

// ReaderFactory builds a PairReader for a chain. Production wiring
// returns an EVM JSON-RPC client on the chain's endpoint; tests return
// fakes.
type ReaderFactory func(chain chains.Chain) PairReader

// Quote is a successfully derived price.
type Quote struct {
	Price        float64
	Source       string // "dex-native" or "dex-stable"
	LiquidityUSD float64
}

type Resolver struct {
	registry  *chains.Registry
	newReader ReaderFactory
}

func NewResolver(registry *chains.Registry, newReader ReaderFactory) *Resolver {
	return &Resolver{registry: registry, newReader: newReader}
}

// ResolvePrice returns the first derivable quote, or nil when no
// configured factory has a usable pool. It never fails: per-factory
// errors are swallowed and the probe loop continues.
func (r *Resolver) ResolvePrice(ctx context.Context, address, chainID string) *Quote {
	chain := r.registry.Resolve(chainID)
	if len(chain.Factories) == 0 || chain.WrappedNative == "" {
		return nil
	}
	address = chains.NormalizeAddress(address, chain)

	reader := r.newReader(chain)
	logger := log.Logger.With(zap.String("address", address), zap.String("chain", chain.ID))

	tokenDecimals, err := reader.TokenDecimals(ctx, address)
	if err != nil || tokenDecimals <= 0 {
		logger.Debug("Could not read token decimals, assuming 18", zap.Error(err))
		tokenDecimals = 18
	}

	for _, factory := range chain.Factories {
		if quote := r.probeNativePair(ctx, reader, chain, factory, address, tokenDecimals, logger); quote != nil {
			return quote
		}
		if quote := r.probeStablePair(ctx, reader, chain, factory, address, tokenDecimals, logger); quote != nil {
			return quote
		}
	}
	return nil
}

func (r *Resolver) probeNativePair(ctx context.Context, reader PairReader, chain chains.Chain, factory, address string, tokenDecimals int, logger *zap.Logger) *Quote {
	tokenReserve, nativeReserve, ok := readPairReserves(ctx, reader, factory, address, chain.WrappedNative, logger)
	if !ok || tokenReserve.Sign() == 0 || nativeReserve.Sign() == 0 {
		return nil
	}

	nativeUSD := r.nativeUSDPrice(ctx, reader, chain)
	if nativeUSD.IsZero() {
		return nil
	}

	nativeUnits := decimal.NewFromBigInt(nativeReserve, -nativeDecimals)
	tokenUnits := decimal.NewFromBigInt(tokenReserve, int32(-tokenDecimals))
	priceInNative := nativeUnits.Div(tokenUnits)
	priceUSD := priceInNative.Mul(nativeUSD)
	liquidityUSD := nativeUnits.Mul(nativeUSD).Mul(decimal.NewFromInt(2))

	price, _ := priceUSD.Float64()
	liquidity, _ := liquidityUSD.Float64()
	return &Quote{Price: price, Source: "dex-native", LiquidityUSD: liquidity}
}

func (r *Resolver) probeStablePair(ctx context.Context, reader PairReader, chain chains.Chain, factory, address string, tokenDecimals int, logger *zap.Logger) *Quote {
	if chain.Stablecoin == "" {
		return nil
	}
	tokenReserve, stableReserve, ok := readPairReserves(ctx, reader, factory, address, chain.Stablecoin, logger)
	if !ok || tokenReserve.Sign() == 0 || stableReserve.Sign() == 0 {
		return nil
	}

	stableUnits := decimal.NewFromBigInt(stableReserve, -stableDecimals)
	tokenUnits := decimal.NewFromBigInt(tokenReserve, int32(-tokenDecimals))
	priceUSD := stableUnits.Div(tokenUnits)
	liquidityUSD := stableUnits.Mul(decimal.NewFromInt(2))

	price, _ := priceUSD.Float64()
	liquidity, _ := liquidityUSD.Float64()
	return &Quote{Price: price, Source: "dex-stable", LiquidityUSD: liquidity}
}

// readPairReserves finds the pool for (address, counterpart) on the
// factory and returns the reserves ordered as (token, counterpart).
// The ok return is false on any on-chain failure; the caller moves on.
func readPairReserves(ctx context.Context, reader PairReader, factory, address, counterpart string, logger *zap.Logger) (*big.Int, *big.Int, bool) {
	pair, err := reader.GetPair(ctx, factory, address, counterpart)
	if err != nil {
		logger.Debug("getPair failed", zap.String("factory", factory), zap.Error(err))
		return nil, nil, false
	}
	if pair == "" {
		return nil, nil, false
	}

	token0, _, err := reader.PairTokens(ctx, pair)
	if err != nil {
		logger.Debug("pair token ordering unreadable", zap.String("pair", pair), zap.Error(err))
		return nil, nil, false
	}
	reserve0, reserve1, err := reader.GetReserves(ctx, pair)
	if err != nil {
		logger.Debug("getReserves failed", zap.String("pair", pair), zap.Error(err))
		return nil, nil, false
	}

	if strings.EqualFold(token0, address) {
		return reserve0, reserve1, true
	}
	return reserve1, reserve0, true
}

// nativeUSDPrice derives the wrapped-native USD price from its stable
// pool, falling back to the registry's static table.
func (r *Resolver) nativeUSDPrice(ctx context.Context, reader PairReader, chain chains.Chain) decimal.Decimal {
	if chain.WrappedNative != "" && chain.Stablecoin != "" {
		for _, factory := range chain.Factories {
			nativeReserve, stableReserve, ok := readPairReserves(ctx, reader, factory, chain.WrappedNative, chain.Stablecoin, log.Logger)
			if !ok || nativeReserve.Sign() == 0 || stableReserve.Sign() == 0 {
				continue
			}
			stableUnits := decimal.NewFromBigInt(stableReserve, -stableDecimals)
			nativeUnits := decimal.NewFromBigInt(nativeReserve, -nativeDecimals)
			return stableUnits.Div(nativeUnits)
		}
	}
	return decimal.NewFromFloat(chain.FallbackNativeUSD)
}
