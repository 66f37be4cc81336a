// internal/database/mongodb.go
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDB struct {
	Client    *mongo.Client
	Users     *mongo.Collection
	Posts     *mongo.Collection
	Topics    *mongo.Collection
	Likes     *mongo.Collection
	Followers *mongo.Collection
	Sessions  *mongo.Collection
}

func NewMongoDB(uri, dbName string) (*MongoDB, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	slog.Info("connected to MongoDB", "db", dbName)

	db := client.Database(dbName)
	return &MongoDB{
		Client:    client,
		Users:     db.Collection("users"),
		Posts:     db.Collection("posts"),
		Topics:    db.Collection("topics"),
		Likes:     db.Collection("likes"),
		Followers: db.Collection("followers"),
		Sessions:  db.Collection("sessions"),
	}, nil
}

// EnsureIndexes creates the unique and TTL indexes the write paths rely on.
// The unique pairs turn read-then-write toggles into atomic conditional
// inserts; the TTL index expires sessions server-side.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	indexes := []struct {
		coll *mongo.Collection
		keys bson.D
		opts *options.IndexOptions
	}{
		{m.Users, bson.D{{Key: "email", Value: 1}}, unique},
		{m.Users, bson.D{{Key: "username", Value: 1}}, unique},
		{m.Topics, bson.D{{Key: "name", Value: 1}}, unique},
		{m.Likes, bson.D{{Key: "userId", Value: 1}, {Key: "postId", Value: 1}}, unique},
		{m.Followers, bson.D{{Key: "followerId", Value: 1}, {Key: "followedId", Value: 1}}, unique},
		{m.Sessions, bson.D{{Key: "token", Value: 1}}, unique},
		{m.Sessions, bson.D{{Key: "expiresAt", Value: 1}}, options.Index().SetExpireAfterSeconds(0)},
		{m.Posts, bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}, nil},
		{m.Posts, bson.D{{Key: "topic.name", Value: 1}}, nil},
		{m.Posts, bson.D{{Key: "author.id", Value: 1}}, nil},
	}

	for _, idx := range indexes {
		model := mongo.IndexModel{Keys: idx.keys, Options: idx.opts}
		if _, err := idx.coll.Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", idx.coll.Name(), err)
		}
	}
	return nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
