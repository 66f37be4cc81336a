// internal/database/user_repository.go
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserDocument represents the MongoDB schema for a user
type UserDocument struct {
	ID             string                `bson:"_id"`
	Username       string                `bson:"username"`
	Email          string                `bson:"email"`
	HashedPassword string                `bson:"hashedPassword"`
	SignUpDate     time.Time             `bson:"signUpDate"`
	ProfilePicture models.ProfilePicture `bson:"profilePicture,omitempty"`
	Bookmarks      []string              `bson:"bookmarks"`
	About          string                `bson:"about,omitempty"`
}

func userDocumentToModel(doc *UserDocument) (*models.User, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in database: %w", err)
	}
	bookmarks := doc.Bookmarks
	if bookmarks == nil {
		bookmarks = []string{}
	}
	return &models.User{
		ID:             id,
		Username:       doc.Username,
		Email:          doc.Email,
		HashedPassword: doc.HashedPassword,
		SignUpDate:     doc.SignUpDate,
		ProfilePicture: doc.ProfilePicture,
		Bookmarks:      bookmarks,
		About:          doc.About,
	}, nil
}

// CreateUser inserts a new user. Duplicate email or username surfaces as a
// Duplicate error naming the colliding field.
func (m *MongoDB) CreateUser(ctx context.Context, user *models.User) error {
	doc := UserDocument{
		ID:             user.ID.String(),
		Username:       user.Username,
		Email:          user.Email,
		HashedPassword: user.HashedPassword,
		SignUpDate:     user.SignUpDate,
		ProfilePicture: user.ProfilePicture,
		Bookmarks:      []string{},
		About:          user.About,
	}

	_, err := m.Users.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewDuplicateError(duplicateUserField(err))
		}
		return utils.NewDatabaseError(err)
	}
	return nil
}

// duplicateUserField names the unique index an insert collided with.
func duplicateUserField(err error) string {
	if strings.Contains(err.Error(), "username") {
		return "username"
	}
	return "email"
}

// GetUser retrieves a user from MongoDB by their ID
func (m *MongoDB) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var doc UserDocument
	err := m.Users.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrUserNotFound, "user not found", err)
	}
	if err != nil {
		return nil, utils.NewDatabaseError(err)
	}
	return userDocumentToModel(&doc)
}

// GetUserByEmail retrieves a user by email, as supplied. Callers normalize
// to lowercase before storing; lookups use the value as provided.
func (m *MongoDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var doc UserDocument
	err := m.Users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrUserNotFound, "user not found", err)
	}
	if err != nil {
		return nil, utils.NewDatabaseError(err)
	}
	return userDocumentToModel(&doc)
}

// UpdateAbout replaces the user's free-text bio.
func (m *MongoDB) UpdateAbout(ctx context.Context, userID uuid.UUID, about string) error {
	result, err := m.Users.UpdateOne(ctx,
		bson.M{"_id": userID.String()},
		bson.M{"$set": bson.M{"about": about}},
	)
	if err != nil {
		return utils.NewDatabaseError(err)
	}
	if result.MatchedCount == 0 {
		return utils.NewAppError(utils.ErrUserNotFound, "user not found", nil)
	}
	return nil
}

// AddBookmark adds postID to the user's bookmark set. The match filter
// excludes users that already hold the bookmark, so a matched count of zero
// means the post was already bookmarked.
func (m *MongoDB) AddBookmark(ctx context.Context, userID uuid.UUID, postID string) error {
	result, err := m.Users.UpdateOne(ctx,
		bson.M{"_id": userID.String(), "bookmarks": bson.M{"$ne": postID}},
		bson.M{"$addToSet": bson.M{"bookmarks": postID}},
	)
	if err != nil {
		return utils.NewDatabaseError(err)
	}
	if result.MatchedCount == 0 {
		return utils.NewDuplicateError("bookmark")
	}
	return nil
}

// RemoveBookmark pulls postID from the user's bookmark set; absence is
// reported as NotFound.
func (m *MongoDB) RemoveBookmark(ctx context.Context, userID uuid.UUID, postID string) error {
	result, err := m.Users.UpdateOne(ctx,
		bson.M{"_id": userID.String(), "bookmarks": postID},
		bson.M{"$pull": bson.M{"bookmarks": postID}},
	)
	if err != nil {
		return utils.NewDatabaseError(err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("bookmark")
	}
	return nil
}

// IsBookmarked reports set membership via the same query shape the
// enrichment path uses: user filtered by _id and bookmark value together.
func (m *MongoDB) IsBookmarked(ctx context.Context, userID uuid.UUID, postID string) (bool, error) {
	err := m.Users.FindOne(ctx,
		bson.M{"_id": userID.String(), "bookmarks": postID},
	).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, utils.NewDatabaseError(err)
	}
	return true, nil
}

// ListUsersByIDs returns lightweight summaries for the given user IDs,
// used by the follows/followers listings.
func (m *MongoDB) ListUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.UserSummary, error) {
	if len(ids) == 0 {
		return []models.UserSummary{}, nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	cursor, err := m.Users.Find(ctx, bson.M{"_id": bson.M{"$in": idStrings}})
	if err != nil {
		return nil, utils.NewDatabaseError(err)
	}
	defer cursor.Close(ctx)

	summaries := []models.UserSummary{}
	for cursor.Next(ctx) {
		var doc UserDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewDatabaseError(err)
		}
		user, err := userDocumentToModel(&doc)
		if err != nil {
			return nil, utils.NewDatabaseError(err)
		}
		summaries = append(summaries, models.UserSummary{
			ID:             user.ID,
			Username:       user.Username,
			ProfilePicture: user.ProfilePicture,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, utils.NewDatabaseError(err)
	}
	return summaries, nil
}
