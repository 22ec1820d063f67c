package chains

// Chain registry: the single source of truth for supported chains
// Consolidates reference addresses, DEX factories, fallback prices and
// RPC endpoints that the resolvers receive by reference

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mr-tron/base58"
)

// Chain describes one supported network and its reference assets.
type Chain struct {
	ID              string
	Name            string
	ShortName       string
	Emoji           string
	DefaultDecimals int
	// WrappedNative and Stablecoin are the reference assets used for
	// AMM price derivation. Empty on chains without configured pools.
	WrappedNative string
	Stablecoin    string
	// Factories is the ordered list of DEX factory contracts probed for
	// liquidity pools.
	Factories []string
	// FallbackNativeUSD is the static native-asset price used when no
	// stable pool answers.
	FallbackNativeUSD float64
	RPCURL            string
	ExplorerTxPrefix  string
}

// IsSolana reports whether the chain uses Solana-style base58 addresses.
func (c Chain) IsSolana() bool {
	return c.ID == "sol"
}

var supportedChains = []Chain{
	{
		ID: "eth", Name: "Ethereum", ShortName: "ETH", Emoji: "💠", DefaultDecimals: 18,
		WrappedNative: "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
		Stablecoin:    "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
		Factories: []string{
			"0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f",
			"0xC0AEe478e3658e2610c5F7A4A2E1777cE9e4f2Ac",
		},
		FallbackNativeUSD: 2500,
		RPCURL:            "https://eth.llamarpc.com",
		ExplorerTxPrefix:  "https://etherscan.io/tx/",
	},
	{
		ID: "bsc", Name: "BNB Smart Chain", ShortName: "BSC", Emoji: "🔶", DefaultDecimals: 18,
		WrappedNative:     "0xbb4cdb9cbd36b01bd1cbaebf2de08d9173bc095c",
		Stablecoin:        "0xe9e7cea3dedca5984780bafc599bd69add087d56",
		Factories:         []string{"0xcA143Ce32Fe78f1f7019d7d551a6402fC5350c73"},
		FallbackNativeUSD: 300,
		RPCURL:            "https://bsc-dataseed.binance.org",
		ExplorerTxPrefix:  "https://bscscan.com/tx/",
	},
	{
		ID: "ftm", Name: "Fantom", ShortName: "FTM", Emoji: "👻", DefaultDecimals: 18,
		WrappedNative:     "0x21be370d5312f44cb42ce377bc9b8a0cef1a4c83",
		Stablecoin:        "0x04068da6c83afcfa0e13ba15a6696662335d5b75",
		Factories:         []string{"0x152eE697f2E276fA89E96742e9bB9aB1F2E61bE3"},
		FallbackNativeUSD: 0.5,
		RPCURL:            "https://rpc.ftm.tools",
		ExplorerTxPrefix:  "https://ftmscan.com/tx/",
	},
	{
		ID: "avax", Name: "Avalanche", ShortName: "AVAX", Emoji: "❄️", DefaultDecimals: 18,
		WrappedNative:     "0xb31f66aa3c1e785363f0875a1b74e27b85fd66c7",
		Stablecoin:        "0xb97ef9ef8734c71904d8002f8b6bc66dd9c48a6e",
		Factories:         []string{"0x9Ad6C38BE94206cA50bb0d90783181662f0Cfa10"},
		FallbackNativeUSD: 20,
		RPCURL:            "https://api.avax.network/ext/bc/C/rpc",
		ExplorerTxPrefix:  "https://snowtrace.io/tx/",
	},
	{
		ID: "cro", Name: "Cronos", ShortName: "CRO", Emoji: "🔵", DefaultDecimals: 18,
		WrappedNative:     "0x5c7f8a570d578ed84e63fdfa7b1ee72deae1ae23",
		Stablecoin:        "0xc21223249ca28397b4b6541dffaecc539bff0c59",
		FallbackNativeUSD: 0.2,
		RPCURL:            "https://evm.cronos.org",
		ExplorerTxPrefix:  "https://cronoscan.com/tx/",
	},
	{
		ID: "arbi", Name: "Arbitrum", ShortName: "ARB", Emoji: "🔵", DefaultDecimals: 18,
		WrappedNative:     "0x82af49447d8a07e3bd95bd0d56f35241523fbab1",
		Stablecoin:        "0xff970a61a04b1ca14834a43f5de4533ebddb5cc8",
		Factories:         []string{"0x1F98431c8aD98523631AE4a59f267346ea31F984"},
		FallbackNativeUSD: 2500,
		RPCURL:            "https://arb1.arbitrum.io/rpc",
		ExplorerTxPrefix:  "https://arbiscan.io/tx/",
	},
	{
		ID: "poly", Name: "Polygon", ShortName: "MATIC", Emoji: "💜", DefaultDecimals: 18,
		WrappedNative:     "0x0d500b1d8e8ef31e21c99d1db9a6444d3adf1270",
		Stablecoin:        "0x2791bca1f2de4661ed88a30c99a7a9449aa84174",
		Factories:         []string{"0x5757371414417b8C6CAad45bAeF941aBc7d3Ab32"},
		FallbackNativeUSD: 0.7,
		RPCURL:            "https://polygon-rpc.com",
		ExplorerTxPrefix:  "https://polygonscan.com/tx/",
	},
	{
		ID: "base", Name: "Base", ShortName: "BASE", Emoji: "🔵", DefaultDecimals: 18,
		WrappedNative:     "0x4200000000000000000000000000000000000006",
		Stablecoin:        "0xd9aaec86b65d86f6a7b5b1b0c42ffa531710b6ca",
		Factories:         []string{"0xFDa619b6d20975be80A10332cD39b9a4b0E4908F"},
		FallbackNativeUSD: 2500,
		RPCURL:            "https://mainnet.base.org",
		ExplorerTxPrefix:  "https://basescan.org/tx/",
	},
	{
		ID: "sol", Name: "Solana", ShortName: "SOL", Emoji: "💙", DefaultDecimals: 9,
		RPCURL:           "https://api.mainnet-beta.solana.com",
		ExplorerTxPrefix: "https://solscan.io/tx/",
	},
	{
		ID: "sonic", Name: "Sonic", ShortName: "SONIC", Emoji: "💨", DefaultDecimals: 18,
		RPCURL:           "https://rpc.soniclabs.com",
		ExplorerTxPrefix: "https://sonicscan.org/tx/",
	},
}

// Registry is built once at startup and passed by reference everywhere
// a chain lookup is needed.
type Registry struct {
	byID         map[string]Chain
	ordered      []Chain
	defaultChain string
}

// NewRegistry builds the registry. rpcOverrides replaces the default RPC
// endpoint per chain id; the default chain falls back to eth when the
// given id is unknown.
func NewRegistry(defaultChain string, rpcOverrides map[string]string) *Registry {
	r := &Registry{byID: make(map[string]Chain, len(supportedChains))}
	for _, chain := range supportedChains {
		if override, ok := rpcOverrides[chain.ID]; ok && override != "" {
			chain.RPCURL = override
		}
		r.byID[chain.ID] = chain
		r.ordered = append(r.ordered, chain)
	}
	if _, ok := r.byID[strings.ToLower(defaultChain)]; ok {
		r.defaultChain = strings.ToLower(defaultChain)
	} else {
		r.defaultChain = "eth"
	}
	return r
}

// ByID returns the chain for the id, and whether it is supported.
func (r *Registry) ByID(id string) (Chain, bool) {
	chain, ok := r.byID[strings.ToLower(id)]
	return chain, ok
}

// IsValid reports whether the chain id is supported.
func (r *Registry) IsValid(id string) bool {
	_, ok := r.byID[strings.ToLower(id)]
	return ok
}

// Default returns the configured default chain.
func (r *Registry) Default() Chain {
	return r.byID[r.defaultChain]
}

// All returns the chains in registration order.
func (r *Registry) All() []Chain {
	out := make([]Chain, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// IDs returns the supported chain ids in registration order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.ordered))
	for _, chain := range r.ordered {
		ids = append(ids, chain.ID)
	}
	return ids
}

// Resolve returns the chain for the id, defaulting when the id is
// missing or unsupported.
func (r *Registry) Resolve(id string) Chain {
	if chain, ok := r.ByID(id); ok {
		return chain
	}
	return r.Default()
}

var evmAddressRe = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
var evmAddressScanRe = regexp.MustCompile(`0x[a-fA-F0-9]{40}`)
var base58AddressScanRe = regexp.MustCompile(`[1-9A-HJ-NP-Za-km-z]{32,44}`)

// NormalizeAddress lowercases EVM addresses and ensures the 0x prefix.
// Solana addresses pass through untouched because base58 is
// case-significant.
func NormalizeAddress(address string, chain Chain) string {
	if chain.IsSolana() {
		return address
	}
	address = strings.ToLower(address)
	if !strings.HasPrefix(address, "0x") {
		address = "0x" + address
	}
	return address
}

// ValidAddress checks the address format for the chain. Solana
// addresses must base58-decode to a 32-byte public key.
func ValidAddress(address string, chain Chain) bool {
	if address == "" {
		return false
	}
	if chain.IsSolana() {
		decoded, err := base58.Decode(address)
		return err == nil && len(decoded) == 32
	}
	return evmAddressRe.MatchString(address)
}

// DetectChain guesses the chain for a bare address: a base58 string of
// key length is treated as Solana, anything else as the default chain.
func (r *Registry) DetectChain(address string) Chain {
	if !strings.HasPrefix(address, "0x") {
		if decoded, err := base58.Decode(address); err == nil && len(decoded) == 32 {
			if sol, ok := r.ByID("sol"); ok {
				return sol
			}
		}
	}
	return r.Default()
}

// ExtractAddress pulls the first contract address out of free text.
func ExtractAddress(text string) string {
	if match := evmAddressScanRe.FindString(text); match != "" {
		return match
	}
	if match := base58AddressScanRe.FindString(text); match != "" {
		if decoded, err := base58.Decode(match); err == nil && len(decoded) == 32 {
			return match
		}
	}
	return ""
}

// MapURL builds the canonical holder-map visualization URL for a token.
func MapURL(address string, chain Chain) string {
	normalized := NormalizeAddress(address, chain)
	baseURL := fmt.Sprintf("https://app.bubblemaps.io/%s/token/%s", chain.ID, normalized)
	if chain.ID != "eth" && chain.ID != "sol" {
		return baseURL + "?chain=" + chain.ID
	}
	return baseURL
}

// ExplorerTxURL builds a transaction link on the chain's explorer.
func ExplorerTxURL(hash string, chain Chain) string {
	if chain.ExplorerTxPrefix == "" {
		return "https://etherscan.io/tx/" + hash
	}
	return chain.ExplorerTxPrefix + hash
}
