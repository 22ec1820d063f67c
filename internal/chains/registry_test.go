package chains

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	uniAddress = "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984"
	solMint    = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	badBase58  = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDl0I"
)

func TestRegistryResolve(t *testing.T) {
	registry := NewRegistry("bsc", nil)

	chain := registry.Resolve("eth")
	assert.Equal(t, "Ethereum", chain.Name)

	// Unknown ids fall back to the configured default.
	assert.Equal(t, "bsc", registry.Resolve("dogecoin").ID)
	assert.Equal(t, "bsc", registry.Resolve("").ID)
}

func TestRegistryDefaultFallsBackToEth(t *testing.T) {
	registry := NewRegistry("not-a-chain", nil)
	assert.Equal(t, "eth", registry.Default().ID)
}

func TestRegistryRPCOverrides(t *testing.T) {
	registry := NewRegistry("eth", map[string]string{"eth": "http://localhost:8545"})

	chain, ok := registry.ByID("eth")
	require.True(t, ok)
	assert.Equal(t, "http://localhost:8545", chain.RPCURL)

	// Other chains keep their bundled endpoint.
	bsc, _ := registry.ByID("bsc")
	assert.Equal(t, "https://bsc-dataseed.binance.org", bsc.RPCURL)
}

func TestNormalizeAddress(t *testing.T) {
	registry := NewRegistry("eth", nil)
	eth := registry.Resolve("eth")
	sol := registry.Resolve("sol")

	assert.Equal(t, "0x1f9840a85d5af5bf1d1762f925bdaddc4201f984", NormalizeAddress(uniAddress, eth))
	assert.Equal(t, "0xabc", NormalizeAddress("ABC", eth))
	// base58 is case-significant, Solana mints pass through.
	assert.Equal(t, solMint, NormalizeAddress(solMint, sol))
}

func TestValidAddress(t *testing.T) {
	registry := NewRegistry("eth", nil)
	eth := registry.Resolve("eth")
	sol := registry.Resolve("sol")

	assert.True(t, ValidAddress(uniAddress, eth))
	assert.False(t, ValidAddress("0x1234", eth))
	assert.False(t, ValidAddress("", eth))
	assert.False(t, ValidAddress(solMint, eth))

	assert.True(t, ValidAddress(solMint, sol))
	assert.False(t, ValidAddress(badBase58, sol))
	assert.False(t, ValidAddress("tooshort", sol))
}

func TestDetectChain(t *testing.T) {
	registry := NewRegistry("eth", nil)

	assert.Equal(t, "sol", registry.DetectChain(solMint).ID)
	assert.Equal(t, "eth", registry.DetectChain(uniAddress).ID)
	// Non-decodable strings land on the default chain.
	assert.Equal(t, "eth", registry.DetectChain("hello world").ID)
}

func TestExtractAddress(t *testing.T) {
	assert.Equal(t, uniAddress, ExtractAddress("check this token "+uniAddress+" please"))
	assert.Equal(t, solMint, ExtractAddress("mint: "+solMint))
	assert.Equal(t, "", ExtractAddress("no address here"))
}

func TestMapURL(t *testing.T) {
	registry := NewRegistry("eth", nil)

	ethURL := MapURL(uniAddress, registry.Resolve("eth"))
	assert.Equal(t, "https://app.bubblemaps.io/eth/token/0x1f9840a85d5af5bf1d1762f925bdaddc4201f984", ethURL)

	bscURL := MapURL(uniAddress, registry.Resolve("bsc"))
	assert.Contains(t, bscURL, "/bsc/token/")
	assert.Contains(t, bscURL, "?chain=bsc")

	solURL := MapURL(solMint, registry.Resolve("sol"))
	assert.Equal(t, "https://app.bubblemaps.io/sol/token/"+solMint, solURL)
}

func TestExplorerTxURL(t *testing.T) {
	registry := NewRegistry("eth", nil)

	assert.Equal(t, "https://bscscan.com/tx/0xabc", ExplorerTxURL("0xabc", registry.Resolve("bsc")))

	// Chains without a configured explorer fall back to etherscan.
	assert.Equal(t, "https://etherscan.io/tx/0xabc", ExplorerTxURL("0xabc", Chain{ID: "none"}))
}

func TestRegistryIDsOrdered(t *testing.T) {
	registry := NewRegistry("eth", nil)
	ids := registry.IDs()
	require.NotEmpty(t, ids)
	assert.Equal(t, "eth", ids[0])
	assert.Contains(t, ids, "sol")
	assert.Contains(t, ids, "sonic")
}
