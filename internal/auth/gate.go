// Package auth implements the session-authentication check every protected
// operation runs first. Sessions are server-stored records keyed by an
// opaque token; a token stays valid until its session is deleted at
// sign-out or expires.
package auth

import (
	"context"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/utils"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
)

// Store is the slice of the data store the gate needs.
type Store interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetSession(ctx context.Context, token string) (*models.Session, error)
	CreateSession(ctx context.Context, session *models.Session) error
	DeleteSession(ctx context.Context, token string) error
}

// Result is the outcome of an authentication check. User may be populated
// even when Authenticated is false (the email resolved but the token did
// not); callers must never trust an unauthenticated identity.
type Result struct {
	Authenticated bool
	User          *models.User
}

type Gate struct {
	store      Store
	sessions   *cache.SessionCache
	sessionTTL time.Duration
	now        func() time.Time
}

func NewGate(store Store, sessions *cache.SessionCache, sessionTTL time.Duration) *Gate {
	return &Gate{
		store:      store,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// Authenticate validates a (token, email) cookie pair. It fails closed on
// missing values, resolves the user by email, then requires an unexpired
// session for that token belonging to that user.
func (g *Gate) Authenticate(ctx context.Context, token, email string) (Result, error) {
	if token == "" || email == "" {
		return Result{}, nil
	}

	user, err := g.store.GetUserByEmail(ctx, email)
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrUserNotFound) {
			return Result{}, nil
		}
		return Result{}, err
	}

	session := g.sessions.Get(ctx, token)
	if session == nil {
		session, err = g.store.GetSession(ctx, token)
		if err != nil {
			if utils.IsErrorCode(err, utils.ErrNotFound) {
				return Result{User: user}, nil
			}
			return Result{}, err
		}
		g.sessions.Put(ctx, session)
	}

	if session.UserID != user.ID || session.Expired(g.now()) {
		return Result{User: user}, nil
	}

	return Result{Authenticated: true, User: user}, nil
}

// OpenSession mints a fresh opaque token for the user and stores the
// session record. Earlier sessions stay valid; each device revokes its own.
func (g *Gate) OpenSession(ctx context.Context, userID uuid.UUID) (*models.Session, error) {
	now := g.now()
	session := &models.Session{
		Token:     shortuuid.New(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(g.sessionTTL),
	}
	if err := g.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	g.sessions.Put(ctx, session)
	return session, nil
}

// CloseSession revokes one token in both the store and the cache.
func (g *Gate) CloseSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	g.sessions.Delete(ctx, token)
	return g.store.DeleteSession(ctx, token)
}
