package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manifoldscope/manifoldscope/internal/domain"
)

var ref = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestParseRelativeTime(t *testing.T) {
	tests := []struct {
		token string
		want  time.Time
	}{
		{"3d", ref.AddDate(0, 0, -3)},
		{"0d", ref},
		{"2mo", ref.AddDate(0, 0, -60)},
		{"1y", ref.AddDate(0, 0, -360)},
		{" 5d ", ref.AddDate(0, 0, -5)},
		{"10MO", ref.AddDate(0, 0, -300)},
	}

	for _, tt := range tests {
		got, err := parseRelativeTime(tt.token, ref)
		require.NoError(t, err, "token %q", tt.token)
		assert.Equal(t, tt.want, got, "token %q", tt.token)
	}
}

func TestParseRelativeTimeRejectsBadTokens(t *testing.T) {
	for _, token := range []string{"", "d", "3w", "-3d", "3.5d", "mo3", "3 months"} {
		_, err := parseRelativeTime(token, ref)
		assert.Error(t, err, "token %q", token)
	}
}

func TestParseTradeLineCommaDelimited(t *testing.T) {
	trade, err := parseTradeLine("alice,buy,150.5,Team Red,YES,3mo", ref)
	require.NoError(t, err)

	assert.Equal(t, "alice", trade.TraderID)
	assert.Equal(t, domain.ActionBuy, trade.Action)
	assert.Equal(t, 150.5, trade.Amount)
	assert.Equal(t, "Team Red", trade.Answer)
	assert.Equal(t, "YES", trade.Outcome)
	assert.Equal(t, ref.AddDate(0, 0, -90), trade.Timestamp)
}

func TestParseTradeLineWhitespaceDelimited(t *testing.T) {
	trade, err := parseTradeLine("bob sell 40 - NO 2d", ref)
	require.NoError(t, err)

	assert.Equal(t, "bob", trade.TraderID)
	assert.Equal(t, domain.ActionSell, trade.Action)
	assert.Equal(t, 40.0, trade.Amount)
	assert.Empty(t, trade.Answer, "dash answer means binary market")
	assert.Equal(t, "NO", trade.Outcome)
}

func TestParseTradeLineNormalizesAmountAndOutcome(t *testing.T) {
	trade, err := parseTradeLine("carol,sold,-75,-,no,1d", ref)
	require.NoError(t, err)

	assert.Equal(t, domain.ActionSell, trade.Action)
	assert.Equal(t, 75.0, trade.Amount, "amount is stored as magnitude")
	assert.Equal(t, "NO", trade.Outcome, "outcome is uppercased")
}

func TestParseTradeLineNaturalLanguage(t *testing.T) {
	trade, err := parseTradeLine("JoshYou bought Ṁ350 of >$25B YES", ref)
	require.NoError(t, err)

	assert.Equal(t, "JoshYou", trade.TraderID)
	assert.Equal(t, domain.ActionBuy, trade.Action)
	assert.Equal(t, 350.0, trade.Amount)
	assert.Equal(t, ">$25B", trade.Answer)
	assert.Equal(t, "YES", trade.Outcome)
	assert.Equal(t, ref, trade.Timestamp, "natural lines anchor at the reference instant")
}

func TestParseTradeLineNaturalLanguageWithManyTokens(t *testing.T) {
	// Tokenizes into eight whitespace fields, so the positional branch claims
	// it first and must hand over to the natural-language shape.
	trade, err := parseTradeLine("Alice bought Ṁ120 of Team Red wins it YES", ref)
	require.NoError(t, err)

	assert.Equal(t, "Alice", trade.TraderID)
	assert.Equal(t, domain.ActionBuy, trade.Action)
	assert.Equal(t, 120.0, trade.Amount)
	assert.Equal(t, "Team Red wins it", trade.Answer)
	assert.Equal(t, "YES", trade.Outcome)
}

func TestParseTradeLinePositionalWinsOverNatural(t *testing.T) {
	// A valid whitespace-delimited line never falls through to the
	// natural-language shape, even when it mentions an action word.
	trade, err := parseTradeLine("dana sold 20 - YES 4d", ref)
	require.NoError(t, err)

	assert.Equal(t, "dana", trade.TraderID)
	assert.Equal(t, 20.0, trade.Amount)
	assert.Equal(t, ref.AddDate(0, 0, -4), trade.Timestamp)
}

func TestParseTradeLineErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"wrong field count", "alice,buy,100"},
		{"unknown action", "alice,hold,100,-,YES,3d"},
		{"unparsable amount", "alice,buy,lots,-,YES,3d"},
		{"nan amount", "alice,buy,NaN,-,YES,3d"},
		{"bad time token", "alice,buy,100,-,YES,someday"},
		{"empty trader", " ,buy,100,-,YES,3d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseTradeLine(tt.line, ref)
			assert.Error(t, err)
		})
	}
}
