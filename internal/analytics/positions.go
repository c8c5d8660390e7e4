package analytics

import (
	"math"
	"sort"

	"github.com/manifoldscope/manifoldscope/internal/domain"
)

// Badge thresholds. Volume for WHALE is relative (top decile of the
// leaderboard), the rest are absolute cutoffs.
const (
	activeBadgeTrades = 15
	bullBadgePct      = 80.0
	bearBadgePct      = 20.0
	winnerBadgeROI    = 50.0
	loserBadgeROI     = -30.0
)

// EstimatePositions approximates each trader's open position and P&L, valued
// at the current market probability. The share model is simplified: a YES buy
// of amount A at probability p is treated as A/p shares, a NO buy as A/(1-p)
// shares, each share paying out 1 at resolution. Sells unwind shares at the
// same rate. Trades without recorded probabilities are excluded.
func EstimatePositions(trades []domain.Trade, currentProb float64) map[string]domain.PositionEstimate {
	positions := make(map[string]domain.PositionEstimate)

	for _, t := range trades {
		if !t.HasProb {
			continue
		}

		p, ok := positions[t.TraderID]
		if !ok {
			p = domain.PositionEstimate{TraderID: t.TraderID}
		}

		sign := 1.0
		if t.Action == domain.ActionSell {
			sign = -1.0
		}

		switch t.Outcome {
		case "YES":
			if t.ProbBefore > 0 {
				p.YesShares += sign * t.Amount / t.ProbBefore
			}
			p.YesCost += sign * t.Amount
		case "NO":
			if t.ProbBefore < 1 {
				p.NoShares += sign * t.Amount / (1 - t.ProbBefore)
			}
			p.NoCost += sign * t.Amount
		default:
			continue
		}

		positions[t.TraderID] = p
	}

	for id, p := range positions {
		value := p.YesShares*currentProb + p.NoShares*(1-currentProb)
		cost := p.YesCost + p.NoCost
		p.PnL = value - cost
		if math.Abs(cost) > 0 {
			p.ROIPct = p.PnL / math.Abs(cost) * 100
		}
		positions[id] = p
	}

	return positions
}

// MeasureImpact sums, per trader, the absolute probability movement their
// trades caused, in percentage points. Trades without recorded probabilities
// are excluded.
func MeasureImpact(trades []domain.Trade) map[string]domain.ImpactStats {
	impact := make(map[string]domain.ImpactStats)

	for _, t := range trades {
		if !t.HasProb {
			continue
		}

		move := math.Abs(t.ProbAfter-t.ProbBefore) * 100
		s := impact[t.TraderID]
		s.TotalImpact += move
		if move > s.BiggestMove {
			s.BiggestMove = move
		}
		impact[t.TraderID] = s
	}

	return impact
}

// ClassifyTraders assigns presentation badges. A trader can hold several
// badges; a trader earning none is tagged RETAIL. The positions map may be
// nil, in which case the P&L badges are simply never awarded.
func ClassifyTraders(summaries map[string]domain.TraderSummary, positions map[string]domain.PositionEstimate) map[string][]string {
	badges := make(map[string][]string, len(summaries))

	whaleCutoff := whaleVolumeCutoff(summaries)

	for id, s := range summaries {
		var tags []string

		if whaleCutoff > 0 && s.TotalVolume >= whaleCutoff {
			tags = append(tags, "WHALE")
		}
		if s.TradeCount >= activeBadgeTrades {
			tags = append(tags, "ACTIVE")
		}
		if s.TotalVolume > 0 {
			yesPct := s.YesVolume / s.TotalVolume * 100
			if yesPct >= bullBadgePct {
				tags = append(tags, "BULL")
			} else if yesPct <= bearBadgePct && s.NoVolume > 0 {
				tags = append(tags, "BEAR")
			}
		}
		if p, ok := positions[id]; ok {
			if p.ROIPct > winnerBadgeROI {
				tags = append(tags, "WINNER")
			} else if p.ROIPct < loserBadgeROI {
				tags = append(tags, "LOSER")
			}
		}
		if len(tags) == 0 {
			tags = append(tags, "RETAIL")
		}

		badges[id] = tags
	}

	return badges
}

// whaleVolumeCutoff returns the volume of the 10th largest trader, or of the
// largest when there are fewer than ten so small markets still get at most a
// handful of whales. Zero when there are no traders.
func whaleVolumeCutoff(summaries map[string]domain.TraderSummary) float64 {
	if len(summaries) == 0 {
		return 0
	}

	volumes := make([]float64, 0, len(summaries))
	for _, s := range summaries {
		volumes = append(volumes, s.TotalVolume)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(volumes)))

	idx := 0
	if len(volumes) >= 10 {
		idx = 9
	}
	return volumes[idx]
}
