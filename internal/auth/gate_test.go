package auth

import (
	"context"
	"testing"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, store *testutil.MemStore, email string) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.New(),
		Username: "user-" + email,
		Email:    email,
	}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func TestAuthenticateFailsClosedOnMissingCredentials(t *testing.T) {
	store := testutil.NewMemStore()
	gate := NewGate(store, nil, time.Hour)

	for _, tc := range []struct{ token, email string }{
		{"", ""},
		{"sometoken", ""},
		{"", "alice@example.com"},
	} {
		result, err := gate.Authenticate(context.Background(), tc.token, tc.email)
		require.NoError(t, err)
		assert.False(t, result.Authenticated)
		assert.Nil(t, result.User)
	}
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	store := testutil.NewMemStore()
	gate := NewGate(store, nil, time.Hour)

	result, err := gate.Authenticate(context.Background(), "sometoken", "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, result.Authenticated)
}

func TestAuthenticateTokenMustBelongToEmail(t *testing.T) {
	store := testutil.NewMemStore()
	gate := NewGate(store, nil, time.Hour)
	alice := seedUser(t, store, "alice@example.com")
	seedUser(t, store, "bob@example.com")

	session, err := gate.OpenSession(context.Background(), alice.ID)
	require.NoError(t, err)

	// Alice's token with Bob's email must not authenticate as anyone.
	result, err := gate.Authenticate(context.Background(), session.Token, "bob@example.com")
	require.NoError(t, err)
	assert.False(t, result.Authenticated)

	result, err = gate.Authenticate(context.Background(), session.Token, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, result.Authenticated)
	assert.Equal(t, alice.ID, result.User.ID)
}

func TestAuthenticateExpiredSession(t *testing.T) {
	store := testutil.NewMemStore()
	gate := NewGate(store, nil, time.Hour)
	alice := seedUser(t, store, "alice@example.com")

	expired := &models.Session{
		Token:     "expired-token",
		UserID:    alice.ID,
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, store.CreateSession(context.Background(), expired))

	result, err := gate.Authenticate(context.Background(), "expired-token", "alice@example.com")
	require.NoError(t, err)
	assert.False(t, result.Authenticated)
}

func TestCloseSessionRevokesToken(t *testing.T) {
	store := testutil.NewMemStore()
	gate := NewGate(store, nil, time.Hour)
	alice := seedUser(t, store, "alice@example.com")

	session, err := gate.OpenSession(context.Background(), alice.ID)
	require.NoError(t, err)

	require.NoError(t, gate.CloseSession(context.Background(), session.Token))

	result, err := gate.Authenticate(context.Background(), session.Token, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, result.Authenticated)
}

func TestOpenSessionMintsDistinctTokens(t *testing.T) {
	store := testutil.NewMemStore()
	gate := NewGate(store, nil, time.Hour)
	alice := seedUser(t, store, "alice@example.com")

	first, err := gate.OpenSession(context.Background(), alice.ID)
	require.NoError(t, err)
	second, err := gate.OpenSession(context.Background(), alice.ID)
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)

	// Both sessions stay valid; closing one leaves the other alone.
	require.NoError(t, gate.CloseSession(context.Background(), first.Token))
	result, err := gate.Authenticate(context.Background(), second.Token, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, result.Authenticated)
}

func TestAuthenticateServesFromCacheAfterStoreMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	sessions := cache.NewSessionCacheWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer sessions.Close()

	store := testutil.NewMemStore()
	gate := NewGate(store, sessions, time.Hour)
	alice := seedUser(t, store, "alice@example.com")

	session, err := gate.OpenSession(context.Background(), alice.ID)
	require.NoError(t, err)

	// First check fills the cache; a store-only wipe then shows the read
	// path going through Redis.
	result, err := gate.Authenticate(context.Background(), session.Token, "alice@example.com")
	require.NoError(t, err)
	require.True(t, result.Authenticated)

	require.NoError(t, store.DeleteSession(context.Background(), session.Token))

	result, err = gate.Authenticate(context.Background(), session.Token, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, result.Authenticated)

	// Sign-out clears both sides, so the token is dead for real.
	require.NoError(t, gate.CloseSession(context.Background(), session.Token))
	result, err = gate.Authenticate(context.Background(), session.Token, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, result.Authenticated)
}
