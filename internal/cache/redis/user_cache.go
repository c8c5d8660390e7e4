package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/manifoldscope/manifoldscope/internal/domain"
	"github.com/redis/go-redis/v9"
)

const defaultUserTTL = 24 * time.Hour

// UserCache implements domain.UserCache with JSON-serialized users under
// string keys.
//
// Key schema:
//
//	user:{id} - JSON-encoded domain.User
type UserCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewUserCache creates a UserCache backed by the given Client. A zero ttl
// falls back to 24 hours, matching how slowly usernames change.
func NewUserCache(c *Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = defaultUserTTL
	}
	return &UserCache{rdb: c.Underlying(), ttl: ttl}
}

func userKey(id string) string { return "user:" + id }

// Set stores a user in the cache.
func (uc *UserCache) Set(ctx context.Context, user domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("redis: marshal user %s: %w", user.ID, err)
	}

	if err := uc.rdb.Set(ctx, userKey(user.ID), data, uc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set user %s: %w", user.ID, err)
	}
	return nil
}

// Get retrieves a user by ID. It returns domain.ErrNotFound when the key does
// not exist.
func (uc *UserCache) Get(ctx context.Context, id string) (domain.User, error) {
	data, err := uc.rdb.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("redis: get user %s: %w", id, err)
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return domain.User{}, fmt.Errorf("redis: unmarshal user %s: %w", id, err)
	}
	return user, nil
}

// Compile-time interface check.
var _ domain.UserCache = (*UserCache)(nil)
