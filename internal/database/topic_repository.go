// internal/database/topic_repository.go
package database

import (
	"context"
	"fmt"
	"regexp"

	"inkwell/internal/models"
	"inkwell/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TopicDocument represents the MongoDB schema for a topic
type TopicDocument struct {
	ID   string `bson:"_id"`
	Name string `bson:"name"`
}

// GetOrCreateTopic resolves a lowercased topic name to its record, creating
// it on first use. A duplicate-key error means another writer won the
// insert race; the read is retried so both callers resolve to one record.
func (m *MongoDB) GetOrCreateTopic(ctx context.Context, name string) (*models.Topic, error) {
	topic, err := m.findTopicByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if topic != nil {
		return topic, nil
	}

	doc := TopicDocument{ID: uuid.New().String(), Name: name}
	if _, err := m.Topics.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			topic, err = m.findTopicByName(ctx, name)
			if err != nil {
				return nil, err
			}
			if topic != nil {
				return topic, nil
			}
		}
		return nil, utils.NewDatabaseError(err)
	}

	id, _ := uuid.Parse(doc.ID)
	return &models.Topic{ID: id, Name: doc.Name}, nil
}

func (m *MongoDB) findTopicByName(ctx context.Context, name string) (*models.Topic, error) {
	var doc TopicDocument
	err := m.Topics.FindOne(ctx, bson.M{"name": name}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, utils.NewDatabaseError(err)
	}
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid topic ID in database: %w", err)
	}
	return &models.Topic{ID: id, Name: doc.Name}, nil
}

// SearchTopics finds topics whose name starts with the given prefix,
// case-insensitively. The prefix is quoted so user input cannot inject
// regex syntax.
func (m *MongoDB) SearchTopics(ctx context.Context, prefix string) ([]models.Topic, error) {
	pattern := "^" + regexp.QuoteMeta(prefix)
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := m.Topics.Find(ctx, bson.M{"name": bson.M{"$regex": pattern, "$options": "i"}}, opts)
	if err != nil {
		return nil, utils.NewDatabaseError(err)
	}
	defer cursor.Close(ctx)

	topics := []models.Topic{}
	for cursor.Next(ctx) {
		var doc TopicDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewDatabaseError(err)
		}
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid topic ID in database: %w", err)
		}
		topics = append(topics, models.Topic{ID: id, Name: doc.Name})
	}
	if err := cursor.Err(); err != nil {
		return nil, utils.NewDatabaseError(err)
	}
	return topics, nil
}
