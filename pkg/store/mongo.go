package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps scores in a MongoDB collection with a TTL index on
// expires_at, so expired uploads vanish without a janitor.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig configures the MongoDB connection. Database and Collection
// default to "handflow" and "scores".
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// NewMongoStore connects to MongoDB, verifies the connection and ensures
// the TTL index exists.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "handflow"
	}
	if cfg.Collection == "" {
		cfg.Collection = "scores"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := retryConnect(ctx, func() error {
		return transient(client.Ping(ctx, nil))
	}); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create ttl index: %w", err)
	}

	return &MongoStore{client: client, coll: coll}, nil
}

// Get retrieves a score. The TTL monitor runs on a coarse interval, so a
// document can briefly outlive its expiry; the explicit check closes that
// window.
func (s *MongoStore) Get(ctx context.Context, id string) (*Score, error) {
	var sc Score
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&sc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	if sc.IsExpired() {
		_, _ = s.coll.DeleteOne(ctx, bson.M{"_id": id})
		return nil, ErrExpired
	}
	return &sc, nil
}

// Set stores a score, replacing any previous document under the same ID.
func (s *MongoStore) Set(ctx context.Context, sc *Score) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": sc.ID}, sc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo upsert: %w", err)
	}
	return nil
}

// Delete removes a score.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	return nil
}

// Cleanup removes documents the TTL monitor has not collected yet.
func (s *MongoStore) Cleanup(ctx context.Context) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": time.Now()}})
	if err != nil {
		return fmt.Errorf("mongo cleanup: %w", err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
