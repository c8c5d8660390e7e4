package domain

import "time"

// Action is the direction of a trade. Amounts are always stored as
// non-negative magnitudes; direction is carried here, never by sign.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// Trade is the canonical normalized trade record that the aggregation
// pipeline consumes. It is constructed once by the ingest package and never
// mutated afterwards.
type Trade struct {
	TraderID  string
	Action    Action
	Outcome   string // "YES" / "NO", treated as an opaque label
	Answer    string // answer bucket for multi-answer markets, empty otherwise
	Amount    float64
	Timestamp time.Time
	TradeID   string // source trade identifier, empty disables dedup

	// Probability context from the API shape. HasProb is false for text
	// input, where the source carries no price information.
	ProbBefore float64
	ProbAfter  float64
	HasProb    bool
}

// Label returns the aggregation label for this trade: the answer bucket when
// the market is multi-answer, otherwise the outcome.
func (t Trade) Label() string {
	if t.Answer != "" {
		return t.Answer
	}
	return t.Outcome
}

// MonthKey returns the calendar month this trade falls in, formatted YYYY-MM
// in UTC.
func (t Trade) MonthKey() string {
	return t.Timestamp.UTC().Format("2006-01")
}

// RawBet is a raw bet event as received from the API. Amount is signed:
// negative amounts are sells. The ingest package normalizes RawBets into
// Trades.
type RawBet struct {
	ID           string
	UserID       string
	AnswerID     string
	Outcome      string
	Amount       float64
	ProbBefore   float64
	ProbAfter    float64
	CreatedTime  int64 // epoch millis
	IsRedemption bool
	IsSold       bool
}
