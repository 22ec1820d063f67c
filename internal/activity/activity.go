package activity

// On-chain transfer activity via the explorer APIs
// Only chains with a wired explorer client report anything; the rest
// return empty results rather than errors, the analysis is additive

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"token-radar/internal/chains"
	"token-radar/internal/clients_api/etherscan"
	"token-radar/internal/infra/log"
)

// ExplorerAPI lists token transfers for one explorer instance.
type ExplorerAPI interface {
	Enabled() bool
	TokenTransfers(ctx context.Context, contract string) ([]etherscan.Transfer, error)
}

// Transfer is one significant token movement.
type Transfer struct {
	Hash            string
	Timestamp       time.Time
	From            string
	To              string
	Value           float64
	Symbol          string
	IsWhaleMovement bool
	ExplorerURL     string
}

// Movement is a whale transfer condensed for display.
type Movement struct {
	Time   time.Time
	Amount float64
	Symbol string
	Type   string // "Buy" or "Sell"
	URL    string
}

// WhaleAnalysis summarizes large-holder behavior around a token.
type WhaleAnalysis struct {
	RecentMovements    []Movement
	NetFlow24h         float64
	WhaleConcentration float64
	Alert              string
}

// Service resolves transfer activity per chain.
type Service struct {
	explorers map[string]ExplorerAPI
	registry  *chains.Registry
}

// NewService wires explorer clients keyed by chain id.
func NewService(registry *chains.Registry, explorers map[string]ExplorerAPI) *Service {
	return &Service{explorers: explorers, registry: registry}
}

// SignificantTransfers returns the largest recent transfers of a token,
// at most five, newest first among the significant set. Chains without
// an explorer client yield an empty slice.
func (s *Service) SignificantTransfers(ctx context.Context, address, chainID string) []Transfer {
	chain := s.registry.Resolve(chainID)
	explorer, ok := s.explorers[chain.ID]
	if !ok || explorer == nil || !explorer.Enabled() {
		return nil
	}

	raw, err := explorer.TokenTransfers(ctx, chains.NormalizeAddress(address, chain))
	if err != nil {
		log.LogWarn("transfer listing failed",
			zap.String("chain", chain.ID),
			zap.String("address", address),
			zap.Error(err))
		return nil
	}
	return significantTransfers(raw, chain)
}

// significantTransfers keeps transfers at or above the 95th-percentile
// value of the batch.
func significantTransfers(raw []etherscan.Transfer, chain chains.Chain) []Transfer {
	if len(raw) == 0 {
		return nil
	}

	decimals := parseDecimals(raw[0].TokenDecimal, chain.DefaultDecimals)
	symbol := raw[0].TokenSymbol

	values := make([]float64, 0, len(raw))
	for _, tx := range raw {
		values = append(values, scaledValue(tx.Value, decimals))
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(values)))

	var threshold float64
	if idx := int(math.Floor(float64(len(values)) * 0.05)); idx < len(values) {
		threshold = values[idx]
	}

	var significant []Transfer
	for _, tx := range raw {
		value := scaledValue(tx.Value, decimals)
		if value < threshold {
			continue
		}
		significant = append(significant, Transfer{
			Hash:            tx.Hash,
			Timestamp:       parseUnix(tx.TimeStamp),
			From:            tx.From,
			To:              tx.To,
			Value:           value,
			Symbol:          symbol,
			IsWhaleMovement: isWhaleAddress(tx.From) || isWhaleAddress(tx.To),
			ExplorerURL:     chains.ExplorerTxURL(tx.Hash, chain),
		})
		if len(significant) == 5 {
			break
		}
	}
	return significant
}

// WhaleActivity condenses the significant transfers into a whale view.
func (s *Service) WhaleActivity(ctx context.Context, address, chainID string) WhaleAnalysis {
	analysis := WhaleAnalysis{}

	transfers := s.SignificantTransfers(ctx, address, chainID)
	if len(transfers) == 0 {
		return analysis
	}

	for _, tx := range transfers {
		if !tx.IsWhaleMovement {
			continue
		}
		kind := "Buy"
		if isSellTransfer(tx) {
			kind = "Sell"
		}
		analysis.RecentMovements = append(analysis.RecentMovements, Movement{
			Time:   tx.Timestamp,
			Amount: tx.Value,
			Symbol: tx.Symbol,
			Type:   kind,
			URL:    tx.ExplorerURL,
		})
	}

	analysis.NetFlow24h = netFlow(transfers)
	if analysis.NetFlow24h < -5 {
		analysis.Alert = "Significant whale selling detected in the last 24 hours"
	}
	return analysis
}

// Whale classification needs a labeled address dataset that is not
// wired yet; until then nothing qualifies.
// TODO: back isWhaleAddress with the holder labels from the
// distribution snapshot.
func isWhaleAddress(string) bool { return false }

func isSellTransfer(Transfer) bool { return false }

func netFlow([]Transfer) float64 { return 0 }

func parseDecimals(raw string, fallback int) int {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fallback
	}
	return int(d.IntPart())
}

func scaledValue(raw string, decimals int) float64 {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0
	}
	v, _ := d.Shift(int32(-decimals)).Float64()
	return v
}

func parseUnix(raw string) time.Time {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(d.IntPart(), 0).UTC()
}
