package analytics

import (
	"time"

	"github.com/manifoldscope/manifoldscope/internal/domain"
)

// AssembleInput carries everything the assembler needs beyond the trades
// themselves. Market may be zero-valued when the trades came from text input
// rather than the API.
type AssembleInput struct {
	Market      domain.Market
	Trades      []domain.Trade
	Diagnostics []domain.Diagnostic
	RunID       string
	GeneratedAt time.Time
}

// Assemble runs the full aggregation pipeline and produces the single
// MarketSummary value handed to the rendering layer. Zero traders is not an
// error: the summary simply carries empty collections and zero aggregates.
func Assemble(in AssembleInput) domain.MarketSummary {
	summaries := AggregateTraders(in.Trades)
	monthly := AggregateMonthly(in.Trades)

	out := domain.MarketSummary{
		MarketID:       in.Market.ID,
		Title:          in.Market.Question,
		Slug:           in.Market.Slug,
		Probability:    in.Market.Probability,
		HasProbability: hasProbData(in.Trades),
		TradeCount:     len(in.Trades),
		UniqueTraders:  len(summaries),
		PeakMonth:      peakMonth(monthly),
		LeadingOutcome: leadingOutcome(monthly),
		Leaderboard:    Leaderboard(summaries),
		Monthly:        monthly,
		Cumulative:     Cumulative(monthly),
		Insights:       ExtractInsights(summaries),
		Diagnostics:    in.Diagnostics,
		GeneratedAt:    in.GeneratedAt,
		RunID:          in.RunID,
	}

	for _, t := range in.Trades {
		out.TotalVolume += t.Amount
	}

	if out.HasProbability {
		out.Positions = EstimatePositions(in.Trades, in.Market.Probability)
		out.Impact = MeasureImpact(in.Trades)
	}
	if len(summaries) > 0 {
		out.Badges = ClassifyTraders(summaries, out.Positions)
	}

	return out
}

func hasProbData(trades []domain.Trade) bool {
	for _, t := range trades {
		if t.HasProb {
			return true
		}
	}
	return false
}

// peakMonth picks the bucket with the highest total volume. The series is
// chronological, so a strict comparison makes ties resolve to the earliest
// month.
func peakMonth(buckets []domain.MonthlyBucket) string {
	var peak string
	var max float64
	for _, b := range buckets {
		if t := b.Total(); peak == "" || t > max {
			peak, max = b.MonthKey, t
		}
	}
	return peak
}

// leadingOutcome picks the outcome label with the highest total volume across
// all months, ties broken by lexicographically smallest label.
func leadingOutcome(buckets []domain.MonthlyBucket) string {
	totals := OutcomeTotals(buckets)

	var leading string
	var max float64
	for label, vol := range totals {
		if leading == "" || vol > max || (vol == max && label < leading) {
			leading, max = label, vol
		}
	}
	return leading
}
