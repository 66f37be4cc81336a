// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"inkwell/internal/models"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionCache is a read-through cache in front of the session collection.
// A nil *SessionCache is valid and disables caching, so callers never need
// to branch on whether Redis is configured.
type SessionCache struct {
	client *redis.Client
}

// NewSessionCache connects to Redis at addr. If the ping fails the cache is
// disabled rather than failing startup; the session store alone is enough
// to serve requests.
func NewSessionCache(addr string) *SessionCache {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, session cache disabled", "addr", addr, "err", err)
		_ = client.Close()
		return nil
	}

	slog.Info("redis session cache enabled", "addr", addr)
	return &SessionCache{client: client}
}

// NewSessionCacheWithClient wraps an existing client; used by tests.
func NewSessionCacheWithClient(client *redis.Client) *SessionCache {
	return &SessionCache{client: client}
}

// Get returns the cached session for token, or nil on miss or error.
func (c *SessionCache) Get(ctx context.Context, token string) *models.Session {
	if c == nil {
		return nil
	}

	data, err := c.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err != nil {
		return nil
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil
	}
	return &session
}

// Put caches a session until its own expiry. Cache errors are ignored; the
// store remains authoritative.
func (c *SessionCache) Put(ctx context.Context, session *models.Session) {
	if c == nil {
		return
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return
	}

	data, err := json.Marshal(session)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, sessionKeyPrefix+session.Token, data, ttl).Err(); err != nil {
		slog.Debug("session cache write failed", "err", err)
	}
}

// Delete drops a token from the cache; called on sign-out so a revoked
// session cannot be served from cache.
func (c *SessionCache) Delete(ctx context.Context, token string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		slog.Debug("session cache delete failed", "err", err)
	}
}

// Close releases the underlying client.
func (c *SessionCache) Close() {
	if c == nil {
		return
	}
	if err := c.client.Close(); err != nil {
		slog.Debug("error closing redis client", "err", err)
	}
}
