package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/contactbook/contacts-api/internal/api/metrics"
	"github.com/contactbook/contacts-api/internal/core/domain"
)

// UserCache caches user snapshots keyed by username with a fixed TTL.
// Key format: user:<username>
//
// The cache is strictly best-effort: any backend failure degrades a Get to a
// miss and a Set to a no-op. Staleness up to the TTL after a password, role
// or confirmation change is an accepted tradeoff; the directory stays the
// source of truth.
type UserCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func NewUserCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *UserCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &UserCache{client: client, ttl: ttl, logger: logger}
}

func (c *UserCache) Get(ctx context.Context, username string) (*domain.User, bool) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	raw, err := c.client.Get(ctx, c.key(username)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
			c.logger.Warn().Err(err).Str("username", username).Msg("user cache get failed, treating as miss")
			return nil, false
		}
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		c.logger.Warn().Err(err).Str("username", username).Msg("corrupt user cache entry, treating as miss")
		return nil, false
	}

	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return &user, true
}

func (c *UserCache) Set(ctx context.Context, user *domain.User) {
	raw, err := json.Marshal(user)
	if err != nil {
		c.logger.Warn().Err(err).Str("username", user.Username).Msg("user cache marshal failed")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := c.client.Set(ctx, c.key(user.Username), raw, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("username", user.Username).Msg("user cache set failed")
	}
}

func (c *UserCache) key(username string) string {
	return fmt.Sprintf("user:%s", username)
}
