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

const (
	mongoDefaultDatabase = "clipper"
	mongoCollection      = "artifacts"
)

// MongoStore keeps artifacts as documents in a MongoDB collection, one
// document per key. Expiration is handled by a TTL index on expires_at,
// with a client-side check covering the TTL monitor's sweep lag.
type MongoStore struct {
	client *mongo.Client
	col    *mongo.Collection
}

// artifactDoc is the stored document shape. Entries without expires_at
// never expire.
type artifactDoc struct {
	Key       string     `bson:"_id"`
	Data      []byte     `bson:"data"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

// NewMongoStore creates a store on top of an existing Mongo client.
// The store takes ownership of the client; Close disconnects it.
func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	if database == "" {
		database = mongoDefaultDatabase
	}
	return &MongoStore{
		client: client,
		col:    client.Database(database).Collection(mongoCollection),
	}
}

// dialMongo connects to the MongoDB instance named by a mongodb:// URL,
// verifies the connection, and ensures the TTL index exists.
func dialMongo(ctx context.Context, url, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := NewMongoStore(client, database)
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// ensureIndexes creates the TTL index that lets MongoDB expire entries
// on its own. ExpireAfterSeconds of 0 means "delete once expires_at has
// passed".
func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("create ttl index: %w", err)
	}
	return nil
}

// Get retrieves the payload stored under key. Documents past their
// expires_at that the TTL monitor hasn't swept yet are removed and
// reported as misses.
func (s *MongoStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var doc artifactDoc
	err := s.col.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, Retryable(fmt.Errorf("mongo get %s: %w", key, err))
	}

	if doc.ExpiresAt != nil && time.Now().After(*doc.ExpiresAt) {
		_, _ = s.col.DeleteOne(ctx, bson.M{"_id": key})
		return nil, false, nil
	}
	return doc.Data, true, nil
}

// Set stores data under key, replacing any existing document.
func (s *MongoStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	doc := artifactDoc{Key: key, Data: data}
	if ttl > 0 {
		expiresAt := time.Now().Add(ttl)
		doc.ExpiresAt = &expiresAt
	}

	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return Retryable(fmt.Errorf("mongo set %s: %w", key, err))
	}
	return nil
}

// Delete removes the document for key.
func (s *MongoStore) Delete(ctx context.Context, key string) error {
	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return Retryable(fmt.Errorf("mongo delete %s: %w", key, err))
	}
	return nil
}

// Keys returns the live keys in lexicographic order.
func (s *MongoStore) Keys(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.D{{Key: "_id", Value: 1}, {Key: "expires_at", Value: 1}}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, Retryable(fmt.Errorf("mongo list: %w", err))
	}
	defer cur.Close(ctx)

	now := time.Now()
	var keys []string
	for cur.Next(ctx) {
		var doc artifactDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo list: %w", err)
		}
		if doc.ExpiresAt != nil && now.After(*doc.ExpiresAt) {
			continue
		}
		keys = append(keys, doc.Key)
	}
	if err := cur.Err(); err != nil {
		return nil, Retryable(fmt.Errorf("mongo list: %w", err))
	}
	return keys, nil
}

// Close disconnects the underlying Mongo client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store and Lister.
var (
	_ Store  = (*MongoStore)(nil)
	_ Lister = (*MongoStore)(nil)
)
