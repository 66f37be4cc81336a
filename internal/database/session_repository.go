// internal/database/session_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SessionDocument represents the MongoDB schema for a session. The token is
// the natural key; Mongo's TTL monitor reaps documents past expiresAt.
type SessionDocument struct {
	Token     string    `bson:"token"`
	UserID    string    `bson:"userId"`
	CreatedAt time.Time `bson:"createdAt"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

// CreateSession stores a fresh session record.
func (m *MongoDB) CreateSession(ctx context.Context, session *models.Session) error {
	doc := SessionDocument{
		Token:     session.Token,
		UserID:    session.UserID.String(),
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	}
	if _, err := m.Sessions.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewDuplicateError("session token")
		}
		return utils.NewDatabaseError(err)
	}
	return nil
}

// GetSession resolves a token to its session record, or NotFound.
func (m *MongoDB) GetSession(ctx context.Context, token string) (*models.Session, error) {
	var doc SessionDocument
	err := m.Sessions.FindOne(ctx, bson.M{"token": token}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("session")
	}
	if err != nil {
		return nil, utils.NewDatabaseError(err)
	}

	userID, err := uuid.Parse(doc.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in session: %w", err)
	}
	return &models.Session{
		Token:     doc.Token,
		UserID:    userID,
		CreatedAt: doc.CreatedAt,
		ExpiresAt: doc.ExpiresAt,
	}, nil
}

// DeleteSession revokes one token. Deleting an unknown token is not an
// error; sign-out is idempotent.
func (m *MongoDB) DeleteSession(ctx context.Context, token string) error {
	if _, err := m.Sessions.DeleteOne(ctx, bson.M{"token": token}); err != nil {
		return utils.NewDatabaseError(err)
	}
	return nil
}
