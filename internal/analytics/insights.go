package analytics

import (
	"sort"

	"github.com/manifoldscope/manifoldscope/internal/domain"
)

// ExtractInsights derives the superlative facts from the trader summaries.
// Every selection is deterministic: ties go to the lexicographically smallest
// trader ID. Directional facts (bull, bear) are defined only for traders with
// positive total volume; a fact with no qualifying trader is left nil.
func ExtractInsights(summaries map[string]domain.TraderSummary) domain.Insights {
	if len(summaries) == 0 {
		return domain.Insights{}
	}

	ids := make([]string, 0, len(summaries))
	for id := range summaries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var insights domain.Insights

	for _, id := range ids {
		s := summaries[id]

		if insights.BiggestWhale == nil || s.TotalVolume > insights.BiggestWhale.Value {
			insights.BiggestWhale = fact(s, s.TotalVolume)
		}
		if insights.MostActive == nil || float64(s.TradeCount) > insights.MostActive.Value {
			insights.MostActive = fact(s, float64(s.TradeCount))
		}

		if s.TotalVolume <= 0 {
			continue
		}
		yesRatio := s.YesVolume / s.TotalVolume
		noRatio := s.NoVolume / s.TotalVolume
		if insights.TopBull == nil || yesRatio > insights.TopBull.Value {
			insights.TopBull = fact(s, yesRatio)
		}
		if insights.TopBear == nil || noRatio > insights.TopBear.Value {
			insights.TopBear = fact(s, noRatio)
		}
	}

	return insights
}

func fact(s domain.TraderSummary, value float64) *domain.InsightFact {
	return &domain.InsightFact{
		TraderID:    s.TraderID,
		DisplayName: s.DisplayName,
		Value:       value,
	}
}
