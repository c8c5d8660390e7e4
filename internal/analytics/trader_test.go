package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manifoldscope/manifoldscope/internal/domain"
)

func tr(trader string, action domain.Action, outcome, answer string, amount float64, month time.Month) domain.Trade {
	return domain.Trade{
		TraderID:  trader,
		Action:    action,
		Outcome:   outcome,
		Answer:    answer,
		Amount:    amount,
		Timestamp: time.Date(2024, month, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestAggregateTraders(t *testing.T) {
	trades := []domain.Trade{
		tr("alice", domain.ActionBuy, "YES", "", 100, time.January),
		tr("alice", domain.ActionSell, "NO", "", 50, time.January),
		tr("bob", domain.ActionBuy, "YES", "", 200, time.March),
	}

	summaries := AggregateTraders(trades)
	require.Len(t, summaries, 2)

	alice := summaries["alice"]
	assert.Equal(t, 150.0, alice.TotalVolume)
	assert.Equal(t, 2, alice.TradeCount)
	assert.Equal(t, 1, alice.BuyCount)
	assert.Equal(t, 1, alice.SellCount)
	assert.Equal(t, 100.0, alice.YesVolume)
	assert.Equal(t, 50.0, alice.NoVolume)

	bob := summaries["bob"]
	assert.Equal(t, 200.0, bob.TotalVolume)
	assert.Equal(t, 200.0, bob.YesVolume)
	assert.Zero(t, bob.NoVolume)
}

func TestAggregateTradersIsOrderIndependent(t *testing.T) {
	trades := []domain.Trade{
		tr("alice", domain.ActionBuy, "YES", "", 100, time.January),
		tr("bob", domain.ActionBuy, "NO", "", 75, time.February),
		tr("alice", domain.ActionSell, "YES", "", 25, time.March),
		tr("carol", domain.ActionBuy, "YES", "Team Red", 10, time.March),
	}

	reversed := make([]domain.Trade, len(trades))
	for i, trade := range trades {
		reversed[len(trades)-1-i] = trade
	}

	assert.Equal(t, AggregateTraders(trades), AggregateTraders(reversed))
}

func TestAggregateTradersUsesAnswerLabelWhenPresent(t *testing.T) {
	trades := []domain.Trade{
		tr("alice", domain.ActionBuy, "YES", "Team Red", 100, time.January),
		tr("alice", domain.ActionBuy, "YES", "", 40, time.January),
	}

	alice := AggregateTraders(trades)["alice"]
	assert.Equal(t, 100.0, alice.OutcomeVolumes["Team Red"])
	assert.Equal(t, 40.0, alice.OutcomeVolumes["YES"])
	assert.Equal(t, 140.0, alice.YesVolume, "yes volume follows the outcome, not the label")
}

func TestTopOutcomesOrderingAndTruncation(t *testing.T) {
	trades := []domain.Trade{
		tr("alice", domain.ActionBuy, "YES", "A", 10, time.January),
		tr("alice", domain.ActionBuy, "YES", "B", 30, time.January),
		tr("alice", domain.ActionBuy, "YES", "C", 30, time.January),
		tr("alice", domain.ActionBuy, "YES", "D", 5, time.January),
	}

	tops := AggregateTraders(trades)["alice"].TopOutcomes
	require.Len(t, tops, 3)
	assert.Equal(t, "B", tops[0].Outcome, "volume ties break lexicographically")
	assert.Equal(t, "C", tops[1].Outcome)
	assert.Equal(t, "A", tops[2].Outcome)
}

func TestLeaderboardOrdering(t *testing.T) {
	summaries := AggregateTraders([]domain.Trade{
		tr("zed", domain.ActionBuy, "YES", "", 100, time.January),
		tr("amy", domain.ActionBuy, "YES", "", 100, time.January),
		tr("max", domain.ActionBuy, "YES", "", 300, time.January),
	})

	board := Leaderboard(summaries)
	require.Len(t, board, 3)
	assert.Equal(t, "max", board[0].TraderID)
	assert.Equal(t, "amy", board[1].TraderID, "volume ties break by ascending trader ID")
	assert.Equal(t, "zed", board[2].TraderID)
}
