package manifold

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manifoldscope/manifoldscope/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(ClientConfig{
		BaseURL:      srv.URL,
		UserAgent:    "test",
		RateLimitRPS: 1000, // keep tests fast
	})
}

func TestGetMarket(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/market/m1", r.URL.Path)
		assert.Equal(t, "test", r.Header.Get("User-Agent"))
		json.NewEncoder(w).Encode(APIMarket{
			ID: "m1", Slug: "will-it", Question: "Will it?", OutcomeType: "BINARY", Probability: 0.55,
		})
	}))

	market, err := c.GetMarket(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "m1", market.ID)
	assert.Equal(t, "Will it?", market.Question)
	assert.Equal(t, 0.55, market.Probability)
}

func TestGetMarketNotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	}))

	_, err := c.GetMarket(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDoGetMapsStatusCodes(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, domain.ErrUnauthorized},
		{http.StatusForbidden, domain.ErrUnauthorized},
		{http.StatusTooManyRequests, domain.ErrRateLimited},
	}

	for _, tt := range tests {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		_, err := c.GetUser(context.Background(), "u1")
		assert.ErrorIs(t, err, tt.want, "status %d", tt.status)
	}
}

func TestFetchAllBetsPaginates(t *testing.T) {
	// Three pages of 2, 2, 1 bets with a page size of 2. Each request's
	// "before" cursor must be the ID of the oldest bet on the previous page.
	pages := [][]APIBet{
		{{ID: "b5"}, {ID: "b4"}},
		{{ID: "b3"}, {ID: "b2"}},
		{{ID: "b1"}},
	}

	var cursors []string
	call := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bets", r.URL.Path)
		assert.Equal(t, "m1", r.URL.Query().Get("contractId"))
		cursors = append(cursors, r.URL.Query().Get("before"))

		require.Less(t, call, len(pages), "no extra page requests after a short page")
		json.NewEncoder(w).Encode(pages[call])
		call++
	}))

	bets, err := c.FetchAllBets(context.Background(), "m1", 2)
	require.NoError(t, err)

	require.Len(t, bets, 5)
	assert.Equal(t, []string{"", "b4", "b2"}, cursors)
	assert.Equal(t, "b5", bets[0].ID)
	assert.Equal(t, "b1", bets[4].ID)
}

func TestFetchAllBetsStopsOnEmptyPage(t *testing.T) {
	call := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call++
		if call == 1 {
			bets := make([]APIBet, 2)
			for i := range bets {
				bets[i].ID = fmt.Sprintf("b%d", i)
			}
			json.NewEncoder(w).Encode(bets)
			return
		}
		json.NewEncoder(w).Encode([]APIBet{})
	}))

	bets, err := c.FetchAllBets(context.Background(), "m1", 2)
	require.NoError(t, err)
	assert.Len(t, bets, 2)
	assert.Equal(t, 2, call)
}

func TestToDomainMarketBuildsAnswerIndex(t *testing.T) {
	m := APIMarket{
		ID:          "m1",
		OutcomeType: "MULTIPLE_CHOICE",
		Answers: []APIAnswer{
			{ID: "a1", Text: "Team Red"},
			{ID: "a2", Text: "Team Blue"},
		},
	}

	market := m.ToDomainMarket()
	assert.Equal(t, "Team Red", market.AnswerLabel("a1"))
	assert.Equal(t, "Team Blue", market.AnswerLabel("a2"))
	assert.Equal(t, "a3", market.AnswerLabel("a3"), "unknown IDs fall through")
}
