package utils

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultQueryTimeout is the default timeout for MongoDB queries
const DefaultQueryTimeout = 10 * time.Second

// FindOneWithTimeout performs a MongoDB FindOne operation with timeout
func FindOneWithTimeout(ctx context.Context, collection *mongo.Collection, filter bson.M, result interface{}, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return collection.FindOne(ctx, filter).Decode(result)
}

// FindOneWithProjectionAndTimeout performs a MongoDB FindOne operation with projection and timeout
func FindOneWithProjectionAndTimeout(ctx context.Context, collection *mongo.Collection, filter bson.M, projection bson.M, result interface{}, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.FindOne().SetProjection(projection)
	return collection.FindOne(ctx, filter, opts).Decode(result)
}

// FindAllWithTimeout runs a Find and decodes every document into results
// before the timeout expires
func FindAllWithTimeout(ctx context.Context, collection *mongo.Collection, filter bson.M, results interface{}, timeout time.Duration, opts ...*options.FindOptions) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cursor, err := collection.Find(ctx, filter, opts...)
	if err != nil {
		return err
	}
	return cursor.All(ctx, results)
}

// UpdateOneWithTimeout performs a MongoDB UpdateOne operation with timeout
func UpdateOneWithTimeout(ctx context.Context, collection *mongo.Collection, filter bson.M, update bson.M, timeout time.Duration) (*mongo.UpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return collection.UpdateOne(ctx, filter, update)
}

// UpsertOneWithTimeout performs a MongoDB Upsert operation with timeout
func UpsertOneWithTimeout(ctx context.Context, collection *mongo.Collection, filter bson.M, update interface{}, timeout time.Duration) (*mongo.UpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Update().SetUpsert(true)
	return collection.UpdateOne(ctx, filter, update, opts)
}

// InsertManyWithTimeout performs a MongoDB InsertMany operation with timeout
func InsertManyWithTimeout(ctx context.Context, collection *mongo.Collection, documents []interface{}, timeout time.Duration) (*mongo.InsertManyResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return collection.InsertMany(ctx, documents)
}
