package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "github.com/manifoldscope/manifoldscope/internal/blob/s3"
	"github.com/manifoldscope/manifoldscope/internal/cache/redis"
	"github.com/manifoldscope/manifoldscope/internal/config"
	"github.com/manifoldscope/manifoldscope/internal/domain"
	"github.com/manifoldscope/manifoldscope/internal/platform/manifold"
	"github.com/manifoldscope/manifoldscope/internal/render"
	"github.com/manifoldscope/manifoldscope/internal/users"
)

// Dependencies bundles everything the application modes need to operate. It
// is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Manifold  *manifold.Client
	Resolver  *users.Resolver
	Renderer  *render.HTMLRenderer
	UserCache domain.UserCache
	Publisher *s3blob.Publisher
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources. Redis and S3 are optional and
// only connected when the configuration asks for them.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	deps.Manifold = manifold.NewClient(manifold.ClientConfig{
		BaseURL:      cfg.Manifold.BaseURL,
		UserAgent:    cfg.Manifold.UserAgent,
		RateLimitRPS: cfg.Fetch.RateLimitRPS,
	})

	// --- Redis username cache (optional) ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.UserCache = redis.NewUserCache(redisClient, cfg.Redis.UserTTL.Duration)
	}

	deps.Resolver = users.NewResolver(
		deps.Manifold,
		deps.UserCache,
		cfg.Fetch.ResolveUsernames,
		cfg.Fetch.MaxUsers,
		logger,
	)

	// --- S3 report publishing (optional) ---
	if cfg.Report.Publish {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })

		deps.Publisher = s3blob.NewPublisher(s3blob.NewWriter(s3Client), cfg.S3.Prefix, logger)
	}

	renderer, err := render.NewHTML(cfg.Report.TopTraders, cfg.Report.MarketURLBase)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: renderer: %w", err)
	}
	deps.Renderer = renderer

	return deps, cleanup, nil
}
