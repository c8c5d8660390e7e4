package users

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/manifoldscope/manifoldscope/internal/domain"
)

func TestAnnotate(t *testing.T) {
	summary := domain.MarketSummary{
		Leaderboard: []domain.TraderSummary{
			{TraderID: "u1"},
			{TraderID: "u2"},
		},
		Insights: domain.Insights{
			BiggestWhale: &domain.InsightFact{TraderID: "u1"},
			TopBear:      &domain.InsightFact{TraderID: "u2"},
		},
	}

	Annotate(&summary, map[string]string{"u1": "alice", "u2": "bob"})

	assert.Equal(t, "alice", summary.Leaderboard[0].DisplayName)
	assert.Equal(t, "bob", summary.Leaderboard[1].DisplayName)
	assert.Equal(t, "alice", summary.Insights.BiggestWhale.DisplayName)
	assert.Equal(t, "bob", summary.Insights.TopBear.DisplayName)
	assert.Nil(t, summary.Insights.MostActive, "absent facts stay absent")
}
