// Package ingest converts heterogeneous trade inputs (API bets, text trade
// lines) into normalized domain.Trade records. Malformed records are skipped
// with a diagnostic, never failing the batch, and records carrying a trade
// identifier are deduplicated so pagination overlap from the fetch layer is
// tolerated here.
package ingest

import (
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/manifoldscope/manifoldscope/internal/domain"
)

// Result is the outcome of one normalization batch. Trades preserve the
// relative order of the input; Diagnostics record every skipped record.
type Result struct {
	Trades      []domain.Trade
	Diagnostics []domain.Diagnostic
	Duplicates  int
	Redemptions int
}

// Normalizer converts raw inputs into normalized trades. It tracks seen trade
// identifiers across calls, so feeding overlapping pages through the same
// Normalizer deduplicates them.
type Normalizer struct {
	seen   map[string]bool
	logger *slog.Logger
}

// NewNormalizer creates a new Normalizer.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	return &Normalizer{
		seen:   make(map[string]bool),
		logger: logger.With(slog.String("component", "normalizer")),
	}
}

// Bets normalizes raw API bets. Redemption bets (internal share conversions,
// not trades) are dropped and counted. Sells are detected by a negative
// amount or the isSold flag; the stored amount is always the magnitude.
func (n *Normalizer) Bets(bets []domain.RawBet) Result {
	var res Result

	for _, b := range bets {
		if b.IsRedemption {
			res.Redemptions++
			continue
		}
		if b.ID != "" {
			if n.seen[b.ID] {
				res.Duplicates++
				continue
			}
			n.seen[b.ID] = true
		}

		action := domain.ActionBuy
		if b.Amount < 0 || b.IsSold {
			action = domain.ActionSell
		}

		res.Trades = append(res.Trades, domain.Trade{
			TraderID:   b.UserID,
			Action:     action,
			Outcome:    strings.ToUpper(strings.TrimSpace(b.Outcome)),
			Answer:     strings.TrimSpace(b.AnswerID),
			Amount:     math.Abs(b.Amount),
			Timestamp:  time.UnixMilli(b.CreatedTime).UTC(),
			TradeID:    b.ID,
			ProbBefore: b.ProbBefore,
			ProbAfter:  b.ProbAfter,
			HasProb:    true,
		})
	}

	if res.Duplicates > 0 || res.Redemptions > 0 {
		n.logger.Debug("normalized bets",
			slog.Int("trades", len(res.Trades)),
			slog.Int("duplicates", res.Duplicates),
			slog.Int("redemptions", res.Redemptions),
		)
	}

	return res
}

// Lines normalizes free-text trade lines. Relative timestamps in the input
// are anchored to ref. Blank lines are ignored; malformed lines are skipped
// with a diagnostic. Line numbers in diagnostics are 1-based.
func (n *Normalizer) Lines(lines []string, ref time.Time) Result {
	var res Result

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		trade, err := parseTradeLine(trimmed, ref)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, domain.Diagnostic{
				Line:   i + 1,
				Record: trimmed,
				Reason: err.Error(),
			})
			n.logger.Warn("skipping malformed trade line",
				slog.Int("line", i+1),
				slog.String("reason", err.Error()),
			)
			continue
		}

		res.Trades = append(res.Trades, trade)
	}

	return res
}
