package cache

import (
	"context"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func testCache(t *testing.T) (*SessionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewSessionCacheWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(c.Close)
	return c, mr
}

func testSession(ttl time.Duration) *models.Session {
	now := time.Now()
	return &models.Session{
		Token:     "tok-" + uuid.NewString(),
		UserID:    uuid.New(),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestSessionCacheRoundTrip(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()
	session := testSession(time.Hour)

	assert.Nil(t, c.Get(ctx, session.Token))

	c.Put(ctx, session)
	got := c.Get(ctx, session.Token)
	if assert.NotNil(t, got) {
		assert.Equal(t, session.Token, got.Token)
		assert.Equal(t, session.UserID, got.UserID)
	}

	c.Delete(ctx, session.Token)
	assert.Nil(t, c.Get(ctx, session.Token))
}

func TestSessionCacheEntryExpiresWithSession(t *testing.T) {
	c, mr := testCache(t)
	ctx := context.Background()
	session := testSession(time.Minute)

	c.Put(ctx, session)
	mr.FastForward(2 * time.Minute)
	assert.Nil(t, c.Get(ctx, session.Token))
}

func TestSessionCacheSkipsAlreadyExpired(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()
	session := testSession(-time.Minute)

	c.Put(ctx, session)
	assert.Nil(t, c.Get(ctx, session.Token))
}

func TestNilSessionCacheIsSafe(t *testing.T) {
	var c *SessionCache
	ctx := context.Background()

	assert.Nil(t, c.Get(ctx, "any"))
	c.Put(ctx, testSession(time.Hour))
	c.Delete(ctx, "any")
	c.Close()
}
