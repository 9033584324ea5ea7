package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/aknur111/blog-web-site/internal/pkg/config"
	"github.com/aknur111/blog-web-site/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type note struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Key       string        `bson:"key"`
	Body      string        `bson:"body"`
	Tags      []string      `bson:"tags"`
	UpdatedAt *time.Time    `bson:"updated_at"`
}

type tagCount struct {
	Tag   string `bson:"tag"`
	Count int64  `bson:"count"`
}

// 需要真实 MongoDB：MONGO_TEST_URI=mongodb://localhost:27017 go test ./pkg/database/
func testDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	client, err := InitMongo(config.MongoConfig{
		URI:            uri,
		Database:       "blog_test",
		ConnectTimeout: 5 * time.Second,
		MaxPoolSize:    4,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, Ping(ctx, client))

	db := client.Database("blog_test_" + bson.NewObjectID().Hex())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		Disconnect(ctx, client)
	})
	return db
}

func TestCollectionCRUD(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()
	notes := NewCollection[note](db, "notes", "note")

	id, err := notes.Insert(ctx, &note{Key: "a", Body: "first", Tags: []string{"x"}})
	require.NoError(t, err)

	got, err := notes.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Body)
	assert.Nil(t, got.UpdatedAt)

	updated, err := notes.UpdateByID(ctx, id, bson.M{"body": "second"})
	require.NoError(t, err)
	assert.Equal(t, "second", updated.Body)
	assert.NotNil(t, updated.UpdatedAt)

	same, err := notes.UpdateByID(ctx, id, bson.M{})
	require.NoError(t, err)
	assert.Equal(t, "second", same.Body)

	matched, err := notes.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$addToSet": bson.M{"tags": "y"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	list, err := notes.Find(ctx, bson.M{"tags": "y"}, FindOptions{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	deleted, err := notes.DeleteByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = notes.FindByID(ctx, id)
	assert.True(t, errs.IsNotFound(err))

	_, err = notes.UpdateByID(ctx, id, bson.M{"body": "third"})
	assert.True(t, errs.IsNotFound(err))

	deleted, err = notes.DeleteByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)

	empty, err := notes.Find(ctx, bson.M{"key": "none"}, FindOptions{})
	require.NoError(t, err)
	assert.NotNil(t, empty)
}

func TestCollectionUpsertAndUniqueIndex(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()
	notes := NewCollection[note](db, "notes", "note")

	require.NoError(t, notes.EnsureIndexes(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("key_unique"),
	}}))

	require.NoError(t, notes.Upsert(ctx, bson.M{"key": "k"}, bson.M{"body": "one"}))
	require.NoError(t, notes.Upsert(ctx, bson.M{"key": "k"}, bson.M{"body": "two"}))

	all, err := notes.Find(ctx, bson.M{"key": "k"}, FindOptions{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "two", all[0].Body)

	_, err = notes.Insert(ctx, &note{Key: "k"})
	assert.True(t, errs.IsConflict(err))
}

func TestAggregate(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()
	notes := NewCollection[note](db, "notes", "note")

	for _, tags := range [][]string{{"go", "db"}, {"go"}} {
		_, err := notes.Insert(ctx, &note{Key: bson.NewObjectID().Hex(), Tags: tags})
		require.NoError(t, err)
	}

	out, err := Aggregate[tagCount](ctx, notes, mongo.Pipeline{
		{{Key: "$unwind", Value: "$tags"}},
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$tags"}, {Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		{{Key: "$project", Value: bson.D{{Key: "_id", Value: 0}, {Key: "tag", Value: "$_id"}, {Key: "count", Value: 1}}}},
	})
	require.NoError(t, err)
	assert.Equal(t, []tagCount{{Tag: "go", Count: 2}, {Tag: "db", Count: 1}}, out)
}
