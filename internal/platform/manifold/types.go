// Package manifold is the REST client for the Manifold Markets public API,
// which provides market metadata, bet history, and user lookups.
package manifold

import (
	"time"

	"github.com/manifoldscope/manifoldscope/internal/domain"
)

// APIMarket mirrors the LiteMarket JSON returned by the Manifold API.
type APIMarket struct {
	ID          string  `json:"id"`
	Slug        string  `json:"slug"`
	Question    string  `json:"question"`
	OutcomeType string  `json:"outcomeType"`
	Probability float64 `json:"probability"`
	IsResolved  bool    `json:"isResolved"`
	Closed      bool    `json:"closed"`
	CreatedTime int64   `json:"createdTime"` // epoch millis
	CloseTime   int64   `json:"closeTime"`   // epoch millis
	Volume      float64 `json:"volume"`

	// Answers is present for multi-answer markets only.
	Answers []APIAnswer `json:"answers,omitempty"`
}

// APIAnswer is one answer option of a multi-answer market.
type APIAnswer struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ToDomainMarket converts an APIMarket to a domain.Market.
func (m *APIMarket) ToDomainMarket() domain.Market {
	var answers map[string]string
	if len(m.Answers) > 0 {
		answers = make(map[string]string, len(m.Answers))
		for _, a := range m.Answers {
			answers[a.ID] = a.Text
		}
	}

	return domain.Market{
		ID:          m.ID,
		Slug:        m.Slug,
		Question:    m.Question,
		OutcomeType: m.OutcomeType,
		Probability: m.Probability,
		Closed:      m.Closed || m.IsResolved,
		CreatedTime: time.UnixMilli(m.CreatedTime).UTC(),
		CloseTime:   time.UnixMilli(m.CloseTime).UTC(),
		Volume:      m.Volume,
		Answers:     answers,
	}
}

// APIBet mirrors the bet JSON returned by the Manifold API. Amount is signed:
// negative amounts are sells.
type APIBet struct {
	ID           string  `json:"id"`
	UserID       string  `json:"userId"`
	ContractID   string  `json:"contractId"`
	AnswerID     string  `json:"answerId,omitempty"`
	Outcome      string  `json:"outcome"`
	Amount       float64 `json:"amount"`
	ProbBefore   float64 `json:"probBefore"`
	ProbAfter    float64 `json:"probAfter"`
	CreatedTime  int64   `json:"createdTime"` // epoch millis
	IsRedemption bool    `json:"isRedemption"`
	IsSold       bool    `json:"isSold"`
}

// ToRawBet converts an APIBet to a domain.RawBet.
func (b *APIBet) ToRawBet() domain.RawBet {
	return domain.RawBet{
		ID:           b.ID,
		UserID:       b.UserID,
		AnswerID:     b.AnswerID,
		Outcome:      b.Outcome,
		Amount:       b.Amount,
		ProbBefore:   b.ProbBefore,
		ProbAfter:    b.ProbAfter,
		CreatedTime:  b.CreatedTime,
		IsRedemption: b.IsRedemption,
		IsSold:       b.IsSold,
	}
}

// ToRawBets converts a slice of APIBets, preserving order.
func ToRawBets(bets []APIBet) []domain.RawBet {
	raw := make([]domain.RawBet, 0, len(bets))
	for i := range bets {
		raw = append(raw, bets[i].ToRawBet())
	}
	return raw
}

// APIUser mirrors the user JSON returned by the Manifold API.
type APIUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// ToDomainUser converts an APIUser to a domain.User.
func (u *APIUser) ToDomainUser() domain.User {
	return domain.User{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
	}
}
