package domain

import "time"

// Market holds the metadata for a prediction market.
type Market struct {
	ID          string
	Slug        string
	Question    string
	OutcomeType string // "BINARY" or "MULTIPLE_CHOICE"
	Probability float64
	Closed      bool
	CreatedTime time.Time
	CloseTime   time.Time
	Volume      float64

	// Answers maps answer IDs to their display text for multi-answer markets.
	// Empty for binary markets.
	Answers map[string]string
}

// AnswerLabel resolves an answer ID to its display text, falling back to the
// ID itself when unknown.
func (m Market) AnswerLabel(answerID string) string {
	if text, ok := m.Answers[answerID]; ok && text != "" {
		return text
	}
	return answerID
}

// User is a resolved trader identity, applied at presentation time only.
// Aggregation always keys on the opaque trader ID.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}
