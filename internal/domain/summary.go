package domain

import "time"

// OutcomeVolume pairs an outcome label with its traded volume.
type OutcomeVolume struct {
	Outcome string  `json:"outcome"`
	Volume  float64 `json:"volume"`
}

// TraderSummary holds per-trader aggregate statistics.
type TraderSummary struct {
	TraderID       string             `json:"trader_id"`
	DisplayName    string             `json:"display_name,omitempty"`
	TotalVolume    float64            `json:"total_volume"`
	TradeCount     int                `json:"trade_count"`
	BuyCount       int                `json:"buy_count"`
	SellCount      int                `json:"sell_count"`
	YesVolume      float64            `json:"yes_volume"`
	NoVolume       float64            `json:"no_volume"`
	OutcomeVolumes map[string]float64 `json:"outcome_volumes"`
	TopOutcomes    []OutcomeVolume    `json:"top_outcomes"`
}

// MonthlyBucket holds the volume traded within a single calendar month,
// broken down by outcome label. Volumes are per-month, never cumulative.
type MonthlyBucket struct {
	MonthKey string             `json:"month"`
	Volumes  map[string]float64 `json:"volumes"`
}

// Total returns the total volume across all outcomes in this bucket.
func (b MonthlyBucket) Total() float64 {
	var sum float64
	for _, v := range b.Volumes {
		sum += v
	}
	return sum
}

// CumulativePoint is one point of the running-sum series derived from the
// monthly buckets.
type CumulativePoint struct {
	MonthKey string             `json:"month"`
	Volumes  map[string]float64 `json:"volumes"`
}

// InsightFact names a trader together with the value that earned them the
// superlative (volume, trade count, or directional ratio).
type InsightFact struct {
	TraderID    string  `json:"trader_id"`
	DisplayName string  `json:"display_name,omitempty"`
	Value       float64 `json:"value"`
}

// Insights holds superlative facts derived from the trader summaries. A nil
// field means the fact is absent (e.g. no trader qualified), which is not an
// error condition.
type Insights struct {
	BiggestWhale *InsightFact `json:"biggest_whale,omitempty"`
	MostActive   *InsightFact `json:"most_active,omitempty"`
	TopBull      *InsightFact `json:"top_bull,omitempty"`
	TopBear      *InsightFact `json:"top_bear,omitempty"`
}

// PositionEstimate is an approximate P&L for a trader, valued at the current
// market probability. The share math uses a simplified AMM model (shares
// bought at probBefore), so these are estimates for presentation only.
type PositionEstimate struct {
	TraderID  string  `json:"trader_id"`
	YesCost   float64 `json:"yes_cost"`
	NoCost    float64 `json:"no_cost"`
	YesShares float64 `json:"yes_shares"`
	NoShares  float64 `json:"no_shares"`
	PnL       float64 `json:"estimated_pnl"`
	ROIPct    float64 `json:"roi_pct"`
}

// ImpactStats measures how much a trader moved the market price.
type ImpactStats struct {
	TotalImpact float64 `json:"total_impact_pct"`
	BiggestMove float64 `json:"biggest_move_pct"`
}

// Diagnostic records one skipped input record. Diagnostics are collected
// best-effort and never abort a batch.
type Diagnostic struct {
	Line   int    `json:"line,omitempty"`
	Record string `json:"record"`
	Reason string `json:"reason"`
}

// MarketSummary is the single value handed to the rendering layer. It merges
// the trader leaderboard, the monthly series, and the insight facts with
// top-level market aggregates.
type MarketSummary struct {
	MarketID       string  `json:"market_id"`
	Title          string  `json:"title"`
	Slug           string  `json:"slug,omitempty"`
	Probability    float64 `json:"probability"` // 0..1, current market probability
	HasProbability bool    `json:"has_probability"`

	TotalVolume    float64 `json:"total_volume"`
	TradeCount     int     `json:"trade_count"`
	UniqueTraders  int     `json:"unique_traders"`
	PeakMonth      string  `json:"peak_month,omitempty"`
	LeadingOutcome string  `json:"leading_outcome,omitempty"`

	Leaderboard []TraderSummary   `json:"leaderboard"`
	Monthly     []MonthlyBucket   `json:"monthly"`
	Cumulative  []CumulativePoint `json:"cumulative"`
	Insights    Insights          `json:"insights"`

	// Presentation extras, keyed by trader ID. Only populated when the input
	// carried probability data.
	Positions map[string]PositionEstimate `json:"positions,omitempty"`
	Impact    map[string]ImpactStats      `json:"impact,omitempty"`
	Badges    map[string][]string         `json:"badges,omitempty"`

	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	GeneratedAt time.Time    `json:"generated_at"`
	RunID       string       `json:"run_id"`
}
