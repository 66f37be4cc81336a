// internal/database/follower_repository.go
package database

import (
	"context"

	"inkwell/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// FollowerDocument represents the MongoDB schema for a follow edge
type FollowerDocument struct {
	ID         string `bson:"_id"`
	FollowerID string `bson:"followerId"`
	FollowedID string `bson:"followedId"`
}

// InsertFollower adds a directed follow edge. The compound unique index
// makes the check-and-insert atomic; an existing edge surfaces as Duplicate.
func (m *MongoDB) InsertFollower(ctx context.Context, followerID, followedID uuid.UUID) error {
	doc := FollowerDocument{
		ID:         uuid.New().String(),
		FollowerID: followerID.String(),
		FollowedID: followedID.String(),
	}
	if _, err := m.Followers.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewDuplicateError("follow")
		}
		return utils.NewDatabaseError(err)
	}
	return nil
}

// DeleteFollower removes the edge; absence is reported as NotFound.
func (m *MongoDB) DeleteFollower(ctx context.Context, followerID, followedID uuid.UUID) error {
	result, err := m.Followers.DeleteOne(ctx, bson.M{
		"followerId": followerID.String(),
		"followedId": followedID.String(),
	})
	if err != nil {
		return utils.NewDatabaseError(err)
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("follow")
	}
	return nil
}

// IsFollowing reports whether the edge exists.
func (m *MongoDB) IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	err := m.Followers.FindOne(ctx, bson.M{
		"followerId": followerID.String(),
		"followedId": followedID.String(),
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, utils.NewDatabaseError(err)
	}
	return true, nil
}

// CountFollowers counts edges pointing at the user.
func (m *MongoDB) CountFollowers(ctx context.Context, userID uuid.UUID) (int, error) {
	count, err := m.Followers.CountDocuments(ctx, bson.M{"followedId": userID.String()})
	if err != nil {
		return 0, utils.NewDatabaseError(err)
	}
	return int(count), nil
}

// CountFollowing counts edges originating from the user.
func (m *MongoDB) CountFollowing(ctx context.Context, userID uuid.UUID) (int, error) {
	count, err := m.Followers.CountDocuments(ctx, bson.M{"followerId": userID.String()})
	if err != nil {
		return 0, utils.NewDatabaseError(err)
	}
	return int(count), nil
}

// ListFollowing returns the IDs of users this user follows.
func (m *MongoDB) ListFollowing(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return m.listEdgeIDs(ctx, bson.M{"followerId": userID.String()}, func(doc *FollowerDocument) string {
		return doc.FollowedID
	})
}

// ListFollowers returns the IDs of users following this user.
func (m *MongoDB) ListFollowers(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return m.listEdgeIDs(ctx, bson.M{"followedId": userID.String()}, func(doc *FollowerDocument) string {
		return doc.FollowerID
	})
}

func (m *MongoDB) listEdgeIDs(ctx context.Context, filter bson.M, pick func(*FollowerDocument) string) ([]uuid.UUID, error) {
	cursor, err := m.Followers.Find(ctx, filter)
	if err != nil {
		return nil, utils.NewDatabaseError(err)
	}
	defer cursor.Close(ctx)

	ids := []uuid.UUID{}
	for cursor.Next(ctx) {
		var doc FollowerDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewDatabaseError(err)
		}
		id, err := uuid.Parse(pick(&doc))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if err := cursor.Err(); err != nil {
		return nil, utils.NewDatabaseError(err)
	}
	return ids, nil
}
