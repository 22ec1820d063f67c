package token

// Shared snapshot types produced by the aggregators
// Snapshots are built once per request and never mutated afterwards
// Nullable economics are pointers: nil means the source had no figure,
// which is not the same thing as zero

import "time"

// Identity is the chain-level identity of a token contract.
type Identity struct {
	Address     string
	Chain       string
	Name        string
	Symbol      string
	Decimals    int
	TotalSupply string // arbitrary precision, as reported by the source
}

// DistributionStats describes how token ownership is spread out.
// Percentage fields are 0-100; a source that lacked a figure leaves it
// at zero and the risk engine treats missing data conservatively.
type DistributionStats struct {
	DecentralizationScore float64
	HoldersCount          int
	CexPercentage         float64
	ContractsPercentage   float64
	Top10Percentage       float64
	Top50Percentage       float64
	Top100Percentage      float64
}

// Holder is one entry of the top-holders list. Percentage may carry a
// raw balance when the source reports no percentage; callers must not
// assume the unit.
type Holder struct {
	Address    string
	Percentage float64
	Label      string
	IsContract bool
	IsCex      bool
}

// Snapshot is the normalized holder-distribution result for one request.
type Snapshot struct {
	Identity   Identity
	Stats      DistributionStats
	TopHolders []Holder // descending by percentage, at most 10
	UpdatedAt  time.Time
	Success    bool
	Error      string
}

// ExchangeListing is one market a token trades on.
type ExchangeListing struct {
	Name       string
	Pair       string
	Price      float64
	Volume     float64
	TrustScore string
}

// MarketSnapshot is the normalized market-economics result for one
// request. Source names which provider answered.
type MarketSnapshot struct {
	Address string
	Chain   string
	Name    string
	Symbol  string

	Price                      *float64
	PriceChangePercentage24h   *float64
	PriceChangePercentage7d    *float64
	PriceChangePercentage30d   *float64
	MarketCap                  *float64
	MarketCapRank              *int
	FullyDilutedValuation      *float64
	Volume24h                  *float64
	VolumeChangePercentage24h  *float64
	CirculatingSupply          *float64
	TotalSupply                *float64
	MaxSupply                  *float64
	AllTimeHigh                *float64
	AllTimeHighDate            string
	AllTimeHighChangePercent   *float64
	AllTimeLow                 *float64
	AllTimeLowDate             string
	AllTimeLowChangePercent    *float64
	High24h                    *float64
	Low24h                     *float64
	LiquidityUSD               *float64
	Exchanges                  []ExchangeListing // descending by volume, at most 5
	TechnicalVolatility        string            // pass-through indicator label, empty when absent

	Source      string
	LastUpdated time.Time
	Success     bool
	Error       string
}

// HasData reports whether the snapshot carries at least one populated
// economic field. The market cascade uses it to decide whether to fall
// through to the next provider.
func (m *MarketSnapshot) HasData() bool {
	if m == nil {
		return false
	}
	return m.Price != nil || m.MarketCap != nil || m.Volume24h != nil || m.TotalSupply != nil
}

// Float returns a pointer to v, for building snapshots inline.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
