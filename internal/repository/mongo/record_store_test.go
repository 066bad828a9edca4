package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestRecordStore_NilCollection(t *testing.T) {
	s := &RecordStore{}

	_, err := s.Get(context.Background(), "customers")
	assert.Error(t, err)
	assert.Error(t, s.Set(context.Background(), "customers", []byte(`[]`)))
	assert.NoError(t, s.Close())
}

func TestConnect_BadURI(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	s, err := Connect(ctx, "mongodb://bad:uri", "garage")
	assert.Error(t, err)
	assert.Nil(t, s)
}

// Integration test (requires running MongoDB)
func TestRecordStore_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping integration test")
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "garagepro_test"
	}

	ctx := context.Background()
	s, err := Connect(ctx, uri, dbName)
	require.NoError(t, err)
	defer s.Close()
	defer s.Collection.DeleteOne(ctx, bson.M{"_id": "test-settings"})

	require.NoError(t, s.Set(ctx, "test-settings", []byte(`{"theme":"dark"}`)))
	require.NoError(t, s.Set(ctx, "test-settings", []byte(`{"theme":"light"}`)))

	v, err := s.Get(ctx, "test-settings")
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"light"}`, string(v))

	v, err = s.Get(ctx, "never-written")
	require.NoError(t, err)
	assert.Nil(t, v)
}
