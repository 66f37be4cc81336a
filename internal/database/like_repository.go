// internal/database/like_repository.go
package database

import (
	"context"

	"inkwell/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// LikeDocument represents the MongoDB schema for a like
type LikeDocument struct {
	ID     string `bson:"_id"`
	UserID string `bson:"userId"`
	PostID string `bson:"postId"`
}

// InsertLike inserts the (user, post) like row and increments the post's
// denormalized counter in one transaction, so neither can drift from the
// other on partial failure. A duplicate pair surfaces as a Duplicate error
// without touching the counter.
func (m *MongoDB) InsertLike(ctx context.Context, userID, postID uuid.UUID) error {
	sess, err := m.Client.StartSession()
	if err != nil {
		return utils.NewDatabaseError(err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		doc := LikeDocument{
			ID:     uuid.New().String(),
			UserID: userID.String(),
			PostID: postID.String(),
		}
		if _, err := m.Likes.InsertOne(sc, doc); err != nil {
			return nil, err
		}
		result, err := m.Posts.UpdateOne(sc,
			bson.M{"_id": postID.String(), "removed": false},
			bson.M{"$inc": bson.M{"likes": 1}},
		)
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			return nil, utils.NewNotFoundError("post")
		}
		return nil, nil
	})
	if err != nil {
		if appErr, ok := utils.AsAppError(err); ok {
			return appErr
		}
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewDuplicateError("like")
		}
		return utils.NewDatabaseError(err)
	}
	return nil
}

// DeleteLike removes the like row and decrements the counter in one
// transaction; a missing row surfaces as NotFound with the counter intact.
func (m *MongoDB) DeleteLike(ctx context.Context, userID, postID uuid.UUID) error {
	sess, err := m.Client.StartSession()
	if err != nil {
		return utils.NewDatabaseError(err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		result, err := m.Likes.DeleteOne(sc, bson.M{
			"userId": userID.String(),
			"postId": postID.String(),
		})
		if err != nil {
			return nil, err
		}
		if result.DeletedCount == 0 {
			return nil, utils.NewNotFoundError("like")
		}
		if _, err := m.Posts.UpdateOne(sc,
			bson.M{"_id": postID.String()},
			bson.M{"$inc": bson.M{"likes": -1}},
		); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		if appErr, ok := utils.AsAppError(err); ok {
			return appErr
		}
		return utils.NewDatabaseError(err)
	}
	return nil
}

// HasLiked reports whether the pair exists.
func (m *MongoDB) HasLiked(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	err := m.Likes.FindOne(ctx, bson.M{
		"userId": userID.String(),
		"postId": postID.String(),
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, utils.NewDatabaseError(err)
	}
	return true, nil
}

// LikedSet returns which of postIDs the viewer has liked, in one query.
func (m *MongoDB) LikedSet(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	liked := make(map[uuid.UUID]bool, len(postIDs))
	if len(postIDs) == 0 {
		return liked, nil
	}

	idStrings := make([]string, len(postIDs))
	for i, id := range postIDs {
		idStrings[i] = id.String()
	}

	cursor, err := m.Likes.Find(ctx, bson.M{
		"userId": userID.String(),
		"postId": bson.M{"$in": idStrings},
	})
	if err != nil {
		return nil, utils.NewDatabaseError(err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc LikeDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewDatabaseError(err)
		}
		postID, err := uuid.Parse(doc.PostID)
		if err != nil {
			continue
		}
		liked[postID] = true
	}
	if err := cursor.Err(); err != nil {
		return nil, utils.NewDatabaseError(err)
	}
	return liked, nil
}
