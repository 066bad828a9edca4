// Package mongo provides a MongoDB backed record store
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultCollection holds one document per record key
const DefaultCollection = "records"

type record struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// RecordStore keeps records as {_id: key, value: json} documents
type RecordStore struct {
	client     *mongo.Client
	Collection *mongo.Collection
}

// Connect connects to MongoDB and verifies the connection with a ping
func Connect(ctx context.Context, uri, database string) (*RecordStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return &RecordStore{
		client:     client,
		Collection: client.Database(database).Collection(DefaultCollection),
	}, nil
}

func (s *RecordStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	var rec record
	err := s.Collection.FindOne(ctx, bson.M{"_id": key}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record %s: %w", key, err)
	}
	return []byte(rec.Value), nil
}

func (s *RecordStore) Set(ctx context.Context, key string, value []byte) error {
	if s.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	rec := record{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	_, err := s.Collection.ReplaceOne(ctx, bson.M{"_id": key}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to set record %s: %w", key, err)
	}
	return nil
}

func (s *RecordStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(context.Background())
}
