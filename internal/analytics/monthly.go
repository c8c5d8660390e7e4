package analytics

import (
	"time"

	"github.com/manifoldscope/manifoldscope/internal/domain"
)

const monthKeyLayout = "2006-01"

// AggregateMonthly folds the trade sequence into chronologically ordered
// monthly buckets covering every month from the earliest trade's month to the
// latest trade's month inclusive. Months with no trades inside that range are
// emitted as zero-volume buckets, so the series has no gaps and a cumulative
// scan over it is evaluable at every month boundary. Each bucket holds
// per-month volume only; cumulative sums are a separate, explicit transform
// (see Cumulative). An empty input produces an empty series.
func AggregateMonthly(trades []domain.Trade) []domain.MonthlyBucket {
	if len(trades) == 0 {
		return nil
	}

	byMonth := make(map[string]map[string]float64)
	var minMonth, maxMonth time.Time

	for _, t := range trades {
		key := t.MonthKey()
		month, _ := time.Parse(monthKeyLayout, key)
		if minMonth.IsZero() || month.Before(minMonth) {
			minMonth = month
		}
		if month.After(maxMonth) {
			maxMonth = month
		}

		vols, ok := byMonth[key]
		if !ok {
			vols = make(map[string]float64)
			byMonth[key] = vols
		}
		vols[t.Label()] += t.Amount
	}

	var buckets []domain.MonthlyBucket
	for m := minMonth; !m.After(maxMonth); m = m.AddDate(0, 1, 0) {
		key := m.Format(monthKeyLayout)
		vols := byMonth[key]
		if vols == nil {
			vols = make(map[string]float64)
		}
		buckets = append(buckets, domain.MonthlyBucket{
			MonthKey: key,
			Volumes:  vols,
		})
	}

	return buckets
}

// Cumulative applies a running-sum scan per outcome across the ordered bucket
// sequence. Each point carries the totals of every outcome label seen so far,
// so a stacked area chart can evaluate the step function at every month.
func Cumulative(buckets []domain.MonthlyBucket) []domain.CumulativePoint {
	running := make(map[string]float64)
	points := make([]domain.CumulativePoint, 0, len(buckets))

	for _, b := range buckets {
		for label, vol := range b.Volumes {
			running[label] += vol
		}

		snapshot := make(map[string]float64, len(running))
		for label, vol := range running {
			snapshot[label] = vol
		}
		points = append(points, domain.CumulativePoint{
			MonthKey: b.MonthKey,
			Volumes:  snapshot,
		})
	}

	return points
}

// OutcomeTotals sums per-outcome volume across all buckets.
func OutcomeTotals(buckets []domain.MonthlyBucket) map[string]float64 {
	totals := make(map[string]float64)
	for _, b := range buckets {
		for label, vol := range b.Volumes {
			totals[label] += vol
		}
	}
	return totals
}
