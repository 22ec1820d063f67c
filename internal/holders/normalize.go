package holders

// Normalizers for the three response shapes of the holder-analytics API
// Classification is by decode attempt in priority order, not by ad hoc
// field sniffing: graph first, then pre-aggregated map, then metadata

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"token-radar/internal/chains"
	"token-radar/internal/token"
)

// graphResponse is the flat holder-graph shape: unsorted nodes, each
// with a percentage and a contract flag.
type graphResponse struct {
	FullName    string      `json:"full_name"`
	Symbol      string      `json:"symbol"`
	Decimals    int         `json:"decimals"`
	TotalSupply string      `json:"total_supply"`
	DtUpdate    string      `json:"dt_update"`
	Nodes       []graphNode `json:"nodes"`
}

type graphNode struct {
	Address    string  `json:"address"`
	Percentage float64 `json:"percentage"`
	Label      string  `json:"label"`
	IsContract bool    `json:"is_contract"`
}

// mapResponse is the pre-aggregated shape: authoritative stats and an
// already-ordered holder list under a nested map object.
type mapResponse struct {
	Success bool        `json:"success"`
	Name    string      `json:"name"`
	Symbol  string      `json:"symbol"`
	Map     *mapPayload `json:"map"`
}

type mapPayload struct {
	Token     mapToken    `json:"token"`
	Stats     mapStats    `json:"stats"`
	Holders   []mapHolder `json:"holders"`
	UpdatedAt string      `json:"updatedAt"`
}

type mapToken struct {
	Decimals    *int   `json:"decimals"`
	TotalSupply string `json:"totalSupply"`
}

type mapStats struct {
	DecentralizationScore float64 `json:"decentralizationScore"`
	HoldersNumber         int     `json:"holdersNumber"`
	CexPercentage         float64 `json:"cexPercentage"`
	ContractsPercentage   float64 `json:"contractsPercentage"`
	Top10Percentage       float64 `json:"top10Percentage"`
	Top50Percentage       float64 `json:"top50Percentage"`
	Top100Percentage      float64 `json:"top100Percentage"`
}

type mapHolder struct {
	Address    string  `json:"address"`
	Percentage float64 `json:"percentage"`
	Balance    float64 `json:"balance"`
	Label      string  `json:"label"`
	IsContract bool    `json:"isContract"`
	IsCex      bool    `json:"isCex"`
}

// metadataResponse is the flat stats-only shape of the secondary
// endpoint. No holder list.
type metadataResponse struct {
	Name                  string  `json:"name"`
	Symbol                string  `json:"symbol"`
	Decimals              *int    `json:"decimals"`
	TotalSupply           string  `json:"totalSupply"`
	DecentralizationScore float64 `json:"decentralizationScore"`
	HoldersCount          int     `json:"holdersCount"`
	CexPercentage         float64 `json:"cexPercentage"`
	ContractsPercentage   float64 `json:"contractsPercentage"`
	Top10Percentage       float64 `json:"top10Percentage"`
	Top50Percentage       float64 `json:"top50Percentage"`
	Top100Percentage      float64 `json:"top100Percentage"`
	UpdatedAt             string  `json:"updatedAt"`
}

// decodeMapData classifies a map-data body and normalizes it. The
// second return is false when no known schema decoded.
func decodeMapData(body []byte, address string, chain chains.Chain) (*token.Snapshot, bool) {
	var graph graphResponse
	if err := json.Unmarshal(body, &graph); err == nil && graph.FullName != "" {
		return normalizeGraph(&graph, address, chain), true
	}

	var mapped mapResponse
	if err := json.Unmarshal(body, &mapped); err == nil {
		if mapped.Map != nil && (len(mapped.Map.Holders) > 0 || mapped.Map.Stats != (mapStats{})) {
			return normalizeMap(&mapped, address, chain), true
		}
		// Generic path: the API signalled success or at least shipped a
		// map object, without either full shape.
		if mapped.Success || mapped.Map != nil {
			return normalizeMap(&mapped, address, chain), true
		}
	}
	return nil, false
}

func decodeMetadata(body []byte, address string, chain chains.Chain) (*token.Snapshot, bool) {
	var meta metadataResponse
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, false
	}
	if meta.Name == "" && meta.HoldersCount == 0 && meta.DecentralizationScore == 0 && meta.Top100Percentage == 0 {
		return nil, false
	}
	return normalizeMetadata(&meta, address, chain), true
}

func normalizeGraph(data *graphResponse, address string, chain chains.Chain) *token.Snapshot {
	nodes := make([]graphNode, len(data.Nodes))
	copy(nodes, data.Nodes)
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Percentage > nodes[j].Percentage
	})

	stats := token.DistributionStats{HoldersCount: len(nodes)}
	if len(nodes) > 0 {
		stats.Top10Percentage = sumPercentages(nodes, 10)
		stats.Top50Percentage = sumPercentages(nodes, 50)
		stats.Top100Percentage = sumPercentages(nodes, 100)
		// Clamped heuristic; it has no deeper derivation.
		stats.DecentralizationScore = max(0, 100-stats.Top10Percentage/2)
		for _, node := range data.Nodes {
			if node.IsContract {
				stats.ContractsPercentage += node.Percentage
			}
		}
	}

	topHolders := make([]token.Holder, 0, 10)
	for i, node := range nodes {
		if i == 10 {
			break
		}
		topHolders = append(topHolders, token.Holder{
			Address:    valueOr(node.Address, "Unknown"),
			Percentage: node.Percentage,
			Label:      node.Label,
			IsContract: node.IsContract,
			// The graph shape carries no exchange flags.
			IsCex: false,
		})
	}

	name := valueOr(data.FullName, "Unknown Token")
	symbol := data.Symbol
	if symbol == "" {
		symbol = firstWord(name)
	}
	decimals := data.Decimals
	if decimals == 0 {
		decimals = chain.DefaultDecimals
	}

	return &token.Snapshot{
		Identity: token.Identity{
			Address:     address,
			Chain:       chain.ID,
			Name:        name,
			Symbol:      valueOr(symbol, "???"),
			Decimals:    decimals,
			TotalSupply: valueOr(data.TotalSupply, "0"),
		},
		Stats:      stats,
		TopHolders: topHolders,
		UpdatedAt:  parseTimestamp(data.DtUpdate),
		Success:    true,
	}
}

func normalizeMap(data *mapResponse, address string, chain chains.Chain) *token.Snapshot {
	payload := data.Map
	if payload == nil {
		payload = &mapPayload{}
	}

	decimals := chain.DefaultDecimals
	if payload.Token.Decimals != nil {
		decimals = *payload.Token.Decimals
	}

	topHolders := make([]token.Holder, 0, 10)
	for i, holder := range payload.Holders {
		if i == 10 {
			break
		}
		percentage := holder.Percentage
		if percentage == 0 && holder.Balance != 0 {
			// Some responses ship a raw balance instead of a share.
			percentage = holder.Balance
		}
		topHolders = append(topHolders, token.Holder{
			Address:    valueOr(holder.Address, "Unknown"),
			Percentage: percentage,
			Label:      holder.Label,
			IsContract: holder.IsContract,
			IsCex:      holder.IsCex,
		})
	}

	return &token.Snapshot{
		Identity: token.Identity{
			Address:     address,
			Chain:       chain.ID,
			Name:        valueOr(data.Name, "Unknown Token"),
			Symbol:      valueOr(data.Symbol, "???"),
			Decimals:    decimals,
			TotalSupply: valueOr(payload.Token.TotalSupply, "0"),
		},
		Stats: token.DistributionStats{
			DecentralizationScore: payload.Stats.DecentralizationScore,
			HoldersCount:          payload.Stats.HoldersNumber,
			CexPercentage:         payload.Stats.CexPercentage,
			ContractsPercentage:   payload.Stats.ContractsPercentage,
			Top10Percentage:       payload.Stats.Top10Percentage,
			Top50Percentage:       payload.Stats.Top50Percentage,
			Top100Percentage:      payload.Stats.Top100Percentage,
		},
		TopHolders: topHolders,
		UpdatedAt:  parseTimestamp(payload.UpdatedAt),
		Success:    true,
	}
}

func normalizeMetadata(data *metadataResponse, address string, chain chains.Chain) *token.Snapshot {
	decimals := chain.DefaultDecimals
	if data.Decimals != nil {
		decimals = *data.Decimals
	}
	return &token.Snapshot{
		Identity: token.Identity{
			Address:     address,
			Chain:       chain.ID,
			Name:        valueOr(data.Name, "Unknown Token"),
			Symbol:      valueOr(data.Symbol, "???"),
			Decimals:    decimals,
			TotalSupply: valueOr(data.TotalSupply, "0"),
		},
		Stats: token.DistributionStats{
			DecentralizationScore: data.DecentralizationScore,
			HoldersCount:          data.HoldersCount,
			CexPercentage:         data.CexPercentage,
			ContractsPercentage:   data.ContractsPercentage,
			Top10Percentage:       data.Top10Percentage,
			Top50Percentage:       data.Top50Percentage,
			Top100Percentage:      data.Top100Percentage,
		},
		TopHolders: []token.Holder{},
		UpdatedAt:  parseTimestamp(data.UpdatedAt),
		Success:    true,
	}
}

func sumPercentages(sorted []graphNode, n int) float64 {
	if n > len(sorted) {
		n = len(sorted)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += sorted[i].Percentage
	}
	return sum
}

func parseTimestamp(value string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}

func firstWord(s string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
