package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manifoldscope/manifoldscope/internal/domain"
)

func TestExtractInsights(t *testing.T) {
	summaries := AggregateTraders([]domain.Trade{
		tr("whale", domain.ActionBuy, "YES", "", 1000, time.January),
		tr("busy", domain.ActionBuy, "YES", "", 10, time.January),
		tr("busy", domain.ActionBuy, "NO", "", 10, time.January),
		tr("busy", domain.ActionBuy, "NO", "", 10, time.January),
		tr("bear", domain.ActionBuy, "NO", "", 100, time.January),
	})

	ins := ExtractInsights(summaries)

	require.NotNil(t, ins.BiggestWhale)
	assert.Equal(t, "whale", ins.BiggestWhale.TraderID)
	assert.Equal(t, 1000.0, ins.BiggestWhale.Value)

	require.NotNil(t, ins.MostActive)
	assert.Equal(t, "busy", ins.MostActive.TraderID)
	assert.Equal(t, 3.0, ins.MostActive.Value)

	require.NotNil(t, ins.TopBull)
	assert.Equal(t, "whale", ins.TopBull.TraderID, "100% YES beats everyone")

	require.NotNil(t, ins.TopBear)
	assert.Equal(t, "bear", ins.TopBear.TraderID)
	assert.Equal(t, 1.0, ins.TopBear.Value)
}

func TestExtractInsightsTiesGoToSmallestID(t *testing.T) {
	summaries := AggregateTraders([]domain.Trade{
		tr("zed", domain.ActionBuy, "YES", "", 100, time.January),
		tr("amy", domain.ActionBuy, "YES", "", 100, time.January),
	})

	ins := ExtractInsights(summaries)
	require.NotNil(t, ins.BiggestWhale)
	assert.Equal(t, "amy", ins.BiggestWhale.TraderID)
	require.NotNil(t, ins.MostActive)
	assert.Equal(t, "amy", ins.MostActive.TraderID)
}

func TestExtractInsightsEmpty(t *testing.T) {
	ins := ExtractInsights(nil)
	assert.Nil(t, ins.BiggestWhale)
	assert.Nil(t, ins.MostActive)
	assert.Nil(t, ins.TopBull)
	assert.Nil(t, ins.TopBear)
}

func TestExtractInsightsSkipsDirectionalForZeroVolume(t *testing.T) {
	summaries := map[string]domain.TraderSummary{
		"ghost": {TraderID: "ghost", TradeCount: 2},
	}

	ins := ExtractInsights(summaries)
	require.NotNil(t, ins.BiggestWhale, "whale is defined even at zero volume")
	assert.Nil(t, ins.TopBull, "directional facts need positive volume")
	assert.Nil(t, ins.TopBear)
}
