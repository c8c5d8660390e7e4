// Package analytics implements the aggregation core: pure folds from
// normalized trades into per-trader summaries, monthly volume buckets,
// insight facts, and the final market summary. Every function here is
// deterministic: the same input sequence always produces identical output,
// and the trader fold is order-independent.
package analytics

import (
	"sort"

	"github.com/manifoldscope/manifoldscope/internal/domain"
)

// topOutcomeCount limits how many outcome labels a trader summary keeps in
// its TopOutcomes view.
const topOutcomeCount = 3

// AggregateTraders folds the trade sequence into per-trader summaries. The
// fold is commutative and associative over sums and counts, so reordering
// the input yields an identical mapping. Outcome labels are opaque strings;
// YesVolume and NoVolume simply accumulate the literal "YES" and "NO" labels,
// which happen to cover binary markets.
func AggregateTraders(trades []domain.Trade) map[string]domain.TraderSummary {
	summaries := make(map[string]domain.TraderSummary)

	for _, t := range trades {
		s, ok := summaries[t.TraderID]
		if !ok {
			s = domain.TraderSummary{
				TraderID:       t.TraderID,
				OutcomeVolumes: make(map[string]float64),
			}
		}

		s.TotalVolume += t.Amount
		s.TradeCount++
		switch t.Action {
		case domain.ActionBuy:
			s.BuyCount++
		case domain.ActionSell:
			s.SellCount++
		}

		switch t.Outcome {
		case "YES":
			s.YesVolume += t.Amount
		case "NO":
			s.NoVolume += t.Amount
		}

		s.OutcomeVolumes[t.Label()] += t.Amount

		summaries[t.TraderID] = s
	}

	// TopOutcomes is a derived view computed once per trader after the fold.
	for id, s := range summaries {
		s.TopOutcomes = topOutcomes(s.OutcomeVolumes)
		summaries[id] = s
	}

	return summaries
}

// topOutcomes sorts a trader's outcome volumes descending, ties broken by
// lexicographic label order, truncated to the top entries.
func topOutcomes(volumes map[string]float64) []domain.OutcomeVolume {
	out := make([]domain.OutcomeVolume, 0, len(volumes))
	for label, vol := range volumes {
		out = append(out, domain.OutcomeVolume{Outcome: label, Volume: vol})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Volume != out[j].Volume {
			return out[i].Volume > out[j].Volume
		}
		return out[i].Outcome < out[j].Outcome
	})

	if len(out) > topOutcomeCount {
		out = out[:topOutcomeCount]
	}
	return out
}

// Leaderboard derives the ordered leaderboard view from the trader mapping:
// descending total volume, ties broken by ascending trader ID.
func Leaderboard(summaries map[string]domain.TraderSummary) []domain.TraderSummary {
	board := make([]domain.TraderSummary, 0, len(summaries))
	for _, s := range summaries {
		board = append(board, s)
	}

	sort.Slice(board, func(i, j int) bool {
		if board[i].TotalVolume != board[j].TotalVolume {
			return board[i].TotalVolume > board[j].TotalVolume
		}
		return board[i].TraderID < board[j].TraderID
	})

	return board
}
