// internal/database/post_repository.go
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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostDocument represents the MongoDB schema for a post.
type PostDocument struct {
	ID          string             `bson:"_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Markdown    string             `bson:"markdown"`
	HTML        string             `bson:"html,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	LastEdit    *time.Time         `bson:"lastEdit,omitempty"`
	Likes       int                `bson:"likes"`
	Author      authorSnapshotDoc  `bson:"author"`
	Topic       topicSnapshotDoc   `bson:"topic"`
	Removed     bool               `bson:"removed"`
}

type authorSnapshotDoc struct {
	ID       string `bson:"id"`
	Username string `bson:"username"`
}

type topicSnapshotDoc struct {
	ID   string `bson:"id"`
	Name string `bson:"name"`
}

// PostFilter narrows listings. The removed-exclusion is always applied and
// is not part of the filter.
type PostFilter struct {
	TopicName string
	AuthorID  *uuid.UUID
}

func postModelToDocument(post *models.Post) *PostDocument {
	return &PostDocument{
		ID:          post.ID.String(),
		Title:       post.Title,
		Description: post.Description,
		Markdown:    post.Markdown,
		HTML:        post.HTML,
		CreatedAt:   post.CreatedAt,
		LastEdit:    post.LastEdit,
		Likes:       post.Likes,
		Author:      authorSnapshotDoc{ID: post.Author.ID.String(), Username: post.Author.Username},
		Topic:       topicSnapshotDoc{ID: post.Topic.ID.String(), Name: post.Topic.Name},
		Removed:     post.Removed,
	}
}

func postDocumentToModel(doc *PostDocument) (*models.Post, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID: %w", err)
	}
	authorID, err := uuid.Parse(doc.Author.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid author ID: %w", err)
	}
	topicID, err := uuid.Parse(doc.Topic.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid topic ID: %w", err)
	}

	return &models.Post{
		ID:          id,
		Title:       doc.Title,
		Description: doc.Description,
		Markdown:    doc.Markdown,
		HTML:        doc.HTML,
		CreatedAt:   doc.CreatedAt,
		LastEdit:    doc.LastEdit,
		Likes:       doc.Likes,
		Author:      models.AuthorSnapshot{ID: authorID, Username: doc.Author.Username},
		Topic:       models.TopicSnapshot{ID: topicID, Name: doc.Topic.Name},
		Removed:     doc.Removed,
	}, nil
}

func postBaseFilter(filter PostFilter) bson.M {
	query := bson.M{"removed": false}
	if filter.TopicName != "" {
		query["topic.name"] = filter.TopicName
	}
	if filter.AuthorID != nil {
		query["author.id"] = filter.AuthorID.String()
	}
	return query
}

// CreatePost inserts a new post.
func (m *MongoDB) CreatePost(ctx context.Context, post *models.Post) error {
	if _, err := m.Posts.InsertOne(ctx, postModelToDocument(post)); err != nil {
		return utils.NewDatabaseError(err)
	}
	return nil
}

// GetPost retrieves a post by ID. Removed posts are reported as not found,
// never as partial records.
func (m *MongoDB) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var doc PostDocument
	err := m.Posts.FindOne(ctx, bson.M{"_id": id.String(), "removed": false}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("post")
	}
	if err != nil {
		return nil, utils.NewDatabaseError(err)
	}
	return postDocumentToModel(&doc)
}

// UpdatePost rewrites a post's editable fields. The filter is scoped to the
// author, so editing someone else's post reports not found.
func (m *MongoDB) UpdatePost(ctx context.Context, postID, authorID uuid.UUID, title, description, markdown string) error {
	now := time.Now().UTC()
	result, err := m.Posts.UpdateOne(ctx,
		bson.M{"_id": postID.String(), "author.id": authorID.String(), "removed": false},
		bson.M{"$set": bson.M{
			"title":       title,
			"description": description,
			"markdown":    markdown,
			"lastEdit":    now,
		}},
	)
	if err != nil {
		return utils.NewDatabaseError(err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("post")
	}
	return nil
}

// RemovePost soft-deletes an author's post.
func (m *MongoDB) RemovePost(ctx context.Context, postID, authorID uuid.UUID) error {
	result, err := m.Posts.UpdateOne(ctx,
		bson.M{"_id": postID.String(), "author.id": authorID.String(), "removed": false},
		bson.M{"$set": bson.M{"removed": true}},
	)
	if err != nil {
		return utils.NewDatabaseError(err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("post")
	}
	return nil
}

// ListPosts returns one pagination window of non-removed posts matching the
// filter, newest first with the post ID as a stable tiebreak.
func (m *MongoDB) ListPosts(ctx context.Context, filter PostFilter, skip, limit int) ([]*models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := m.Posts.Find(ctx, postBaseFilter(filter), opts)
	if err != nil {
		return nil, utils.NewDatabaseError(err)
	}
	defer cursor.Close(ctx)

	return decodePosts(ctx, cursor)
}

// CountPosts counts over the same predicate ListPosts selects with,
// independent of the pagination window.
func (m *MongoDB) CountPosts(ctx context.Context, filter PostFilter) (int, error) {
	count, err := m.Posts.CountDocuments(ctx, postBaseFilter(filter))
	if err != nil {
		return 0, utils.NewDatabaseError(err)
	}
	return int(count), nil
}

// ListPostsByIDs returns the non-removed posts among ids, newest first.
// Used for the bookmark feed; IDs arrive in bookmark string form.
func (m *MongoDB) ListPostsByIDs(ctx context.Context, ids []string) ([]*models.Post, error) {
	if len(ids) == 0 {
		return []*models.Post{}, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := m.Posts.Find(ctx, bson.M{"_id": bson.M{"$in": ids}, "removed": false}, opts)
	if err != nil {
		return nil, utils.NewDatabaseError(err)
	}
	defer cursor.Close(ctx)

	return decodePosts(ctx, cursor)
}

func decodePosts(ctx context.Context, cursor *mongo.Cursor) ([]*models.Post, error) {
	posts := []*models.Post{}
	for cursor.Next(ctx) {
		var doc PostDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewDatabaseError(err)
		}
		post, err := postDocumentToModel(&doc)
		if err != nil {
			return nil, utils.NewDatabaseError(err)
		}
		posts = append(posts, post)
	}
	if err := cursor.Err(); err != nil {
		return nil, utils.NewDatabaseError(err)
	}
	return posts, nil
}
