package ingest

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/manifoldscope/manifoldscope/internal/domain"
)

// Relative-time grammar: <int>d (days), <int>mo (months), <int>y (years),
// each meaning "N units before the reference instant". Month and year
// conversion uses a fixed 30-day month (1y = 12 months = 360 days). This is
// intentionally approximate, chosen for determinism over exact calendar
// arithmetic.
const daysPerMonth = 30

var (
	timeTokenRe = regexp.MustCompile(`^(\d+)\s*(d|mo|y)$`)

	// Natural-language fallback: `JoshYou bought Ṁ350 of >$25B YES`.
	naturalLineRe = regexp.MustCompile(`(?i)^(\S+)\s+(bought|sold)\s+[ṀM]?(\d+(?:\.\d+)?)\s+(?:of\s+)?(.+?)\s+(YES|NO)$`)
)

// parseRelativeTime converts a relative time token into an absolute instant
// anchored at ref.
func parseRelativeTime(token string, ref time.Time) (time.Time, error) {
	m := timeTokenRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(token)))
	if m == nil {
		return time.Time{}, fmt.Errorf("unrecognized time token %q", token)
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized time token %q", token)
	}

	var days int
	switch m[2] {
	case "d":
		days = n
	case "mo":
		days = n * daysPerMonth
	case "y":
		days = n * 12 * daysPerMonth
	}

	return ref.AddDate(0, 0, -days), nil
}

// parseAction maps the action column onto a trade direction.
func parseAction(s string) (domain.Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "bought":
		return domain.ActionBuy, nil
	case "sell", "sold":
		return domain.ActionSell, nil
	default:
		return "", fmt.Errorf("unknown action %q", s)
	}
}

// parseTradeLine parses a single trade line. The primary shape is delimited
// fields `trader,action,amount,answer,outcome,relative_time` (comma- or
// whitespace-separated); comma-free lines that fail the positional parse are
// retried against the natural-language shape, with the timestamp defaulting
// to the reference instant. A natural line can tokenize into six or more
// whitespace fields, so the positional error alone never decides the line.
func parseTradeLine(line string, ref time.Time) (domain.Trade, error) {
	if strings.Contains(line, ",") {
		return parsePositional(strings.Split(line, ","), ref)
	}

	fields := strings.Fields(line)
	if len(fields) >= 6 {
		trade, err := parsePositional(fields, ref)
		if err == nil {
			return trade, nil
		}
		if natural, nerr := parseNatural(line, ref); nerr == nil {
			return natural, nil
		}
		return domain.Trade{}, err
	}

	if trade, err := parseNatural(line, ref); err == nil {
		return trade, nil
	}

	return domain.Trade{}, fmt.Errorf("wrong field count: got %d, want 6", len(fields))
}

// parsePositional parses the delimited shape
// `trader,action,amount,answer,outcome,relative_time`.
func parsePositional(fields []string, ref time.Time) (domain.Trade, error) {
	if len(fields) < 6 {
		return domain.Trade{}, fmt.Errorf("wrong field count: got %d, want 6", len(fields))
	}

	trader := strings.TrimSpace(fields[0])
	if trader == "" {
		return domain.Trade{}, fmt.Errorf("empty trader field")
	}

	action, err := parseAction(fields[1])
	if err != nil {
		return domain.Trade{}, err
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return domain.Trade{}, fmt.Errorf("unparsable amount %q", strings.TrimSpace(fields[2]))
	}

	ts, err := parseRelativeTime(fields[5], ref)
	if err != nil {
		return domain.Trade{}, err
	}

	answer := strings.TrimSpace(fields[3])
	if answer == "-" {
		answer = ""
	}

	return domain.Trade{
		TraderID:  trader,
		Action:    action,
		Outcome:   strings.ToUpper(strings.TrimSpace(fields[4])),
		Answer:    answer,
		Amount:    math.Abs(amount),
		Timestamp: ts.UTC(),
	}, nil
}

// parseNatural parses the natural-language shape
// `<user> bought Ṁ<amount> of <answer> YES`.
func parseNatural(line string, ref time.Time) (domain.Trade, error) {
	m := naturalLineRe.FindStringSubmatch(line)
	if m == nil {
		return domain.Trade{}, fmt.Errorf("not a natural-language trade line")
	}

	action, err := parseAction(m[2])
	if err != nil {
		return domain.Trade{}, err
	}

	amount, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return domain.Trade{}, fmt.Errorf("unparsable amount %q", m[3])
	}

	return domain.Trade{
		TraderID:  m[1],
		Action:    action,
		Outcome:   strings.ToUpper(m[5]),
		Answer:    strings.TrimSpace(m[4]),
		Amount:    amount,
		Timestamp: ref.UTC(),
	}, nil
}
