// Package users resolves trader IDs to display names, with an optional cache
// in front of the API lookups. Resolution is strictly best-effort: any
// failure falls back to a truncated trader ID so report generation never
// blocks on the user endpoint.
package users

import (
	"context"
	"errors"
	"log/slog"

	"github.com/manifoldscope/manifoldscope/internal/domain"
)

// idDisplayLen is how many leading characters of a trader ID are shown when
// no username is available.
const idDisplayLen = 12

// Fetcher looks a user up by ID on the platform API.
type Fetcher interface {
	GetUser(ctx context.Context, id string) (domain.User, error)
}

// Resolver maps trader IDs to display names. Resolved names are memoized in
// process, so the external cache is an optimization across runs, not a
// requirement.
type Resolver struct {
	fetcher  Fetcher
	cache    domain.UserCache
	enabled  bool
	maxUsers int
	logger   *slog.Logger
	mem      map[string]string
}

// NewResolver creates a Resolver. cache may be nil; fetcher may be nil when
// enabled is false. maxUsers caps how many distinct IDs are resolved via the
// API per call, with the remainder falling back to truncated IDs (zero means
// no cap).
func NewResolver(fetcher Fetcher, cache domain.UserCache, enabled bool, maxUsers int, logger *slog.Logger) *Resolver {
	return &Resolver{
		fetcher:  fetcher,
		cache:    cache,
		enabled:  enabled,
		maxUsers: maxUsers,
		logger:   logger.With(slog.String("component", "users")),
		mem:      make(map[string]string),
	}
}

// DisplayNames returns a display name for every ID in ids. Order of ids
// determines which IDs get resolved when the cap is hit, so callers should
// pass them in priority order (e.g. leaderboard order).
func (r *Resolver) DisplayNames(ctx context.Context, ids []string) map[string]string {
	names := make(map[string]string, len(ids))
	resolved := 0

	for _, id := range ids {
		if _, ok := names[id]; ok {
			continue
		}
		if !r.enabled || (r.maxUsers > 0 && resolved >= r.maxUsers) {
			names[id] = truncateID(id)
			continue
		}
		names[id] = r.resolve(ctx, id)
		resolved++
	}

	return names
}

func (r *Resolver) resolve(ctx context.Context, id string) string {
	if name, ok := r.mem[id]; ok {
		return name
	}

	name := r.lookup(ctx, id)
	r.mem[id] = name
	return name
}

func (r *Resolver) lookup(ctx context.Context, id string) string {
	if r.cache != nil {
		u, err := r.cache.Get(ctx, id)
		if err == nil && u.Username != "" {
			return u.Username
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			r.logger.Warn("user cache lookup failed", slog.String("user_id", id), slog.String("error", err.Error()))
		}
	}

	u, err := r.fetcher.GetUser(ctx, id)
	if err != nil {
		r.logger.Warn("user lookup failed", slog.String("user_id", id), slog.String("error", err.Error()))
		return truncateID(id)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, u); err != nil {
			r.logger.Warn("user cache write failed", slog.String("user_id", id), slog.String("error", err.Error()))
		}
	}

	if u.Username == "" {
		return truncateID(id)
	}
	return u.Username
}

// Annotate writes display names onto a market summary in place: the
// leaderboard rows and each insight fact.
func Annotate(summary *domain.MarketSummary, names map[string]string) {
	for i := range summary.Leaderboard {
		if name, ok := names[summary.Leaderboard[i].TraderID]; ok {
			summary.Leaderboard[i].DisplayName = name
		}
	}

	for _, f := range []*domain.InsightFact{
		summary.Insights.BiggestWhale,
		summary.Insights.MostActive,
		summary.Insights.TopBull,
		summary.Insights.TopBear,
	} {
		if f == nil {
			continue
		}
		if name, ok := names[f.TraderID]; ok {
			f.DisplayName = name
		}
	}
}

func truncateID(id string) string {
	if len(id) > idDisplayLen {
		return id[:idDisplayLen]
	}
	return id
}
