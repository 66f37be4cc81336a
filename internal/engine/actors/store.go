package actors

import (
	"context"

	"inkwell/internal/models"

	"github.com/google/uuid"
)

// Store is the mutation surface the actors drive. *database.MongoDB
// satisfies it; tests substitute an in-memory implementation.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateAbout(ctx context.Context, userID uuid.UUID, about string) error
	AddBookmark(ctx context.Context, userID uuid.UUID, postID string) error
	RemoveBookmark(ctx context.Context, userID uuid.UUID, postID string) error

	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error)
	UpdatePost(ctx context.Context, postID, authorID uuid.UUID, title, description, markdown string) error
	RemovePost(ctx context.Context, postID, authorID uuid.UUID) error
	GetOrCreateTopic(ctx context.Context, name string) (*models.Topic, error)

	InsertLike(ctx context.Context, userID, postID uuid.UUID) error
	DeleteLike(ctx context.Context, userID, postID uuid.UUID) error

	InsertFollower(ctx context.Context, followerID, followedID uuid.UUID) error
	DeleteFollower(ctx context.Context, followerID, followedID uuid.UUID) error
}
