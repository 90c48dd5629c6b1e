package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/viet-college/app-dept-pages/internal/logging"
	"github.com/viet-college/app-dept-pages/internal/redisclient"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.uber.org/zap"
)

var (
	// MongoClient is the connected MongoDB client
	MongoClient *mongo.Client
	// MongoDB client
	MongoDB *mongo.Database
	// Redis client
	Redis *redisclient.Client
)

// InitMongoDB initializes the MongoDB connection and ensures the required indexes
func InitMongoDB() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(AppConfig.MongoURI).
		SetMonitor(otelmongo.NewMonitor()).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(5 * time.Minute).
		SetRetryWrites(true).
		SetRetryReads(true)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	MongoClient = client
	MongoDB = client.Database(AppConfig.MongoDatabase)

	if err := EnsureIndexes(context.Background(), MongoDB); err != nil {
		logging.Logger.Error("failed to ensure indexes on startup", zap.Error(err))
	}

	logging.Logger.Info("connected to MongoDB",
		zap.String("uri", maskMongoURI(AppConfig.MongoURI)),
		zap.String("database", AppConfig.MongoDatabase),
	)
	return nil
}

// InitRedis initializes the Redis connection. A failed ping is logged but not fatal:
// the services fall back to MongoDB when the cache is unreachable.
func InitRedis() {
	redisClient := redis.NewClient(&redis.Options{
		Addr:         AppConfig.RedisURI,
		Password:     AppConfig.RedisPassword,
		DB:           AppConfig.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	Redis = redisclient.NewClient(redisClient)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Redis.Ping(ctx).Err(); err != nil {
		logging.Logger.Error("failed to connect to Redis",
			zap.String("uri", AppConfig.RedisURI),
			zap.Error(err))
		return
	}

	logging.Logger.Info("connected to Redis",
		zap.String("uri", AppConfig.RedisURI))
}

// DisconnectMongoDB closes the MongoDB client if one is connected
func DisconnectMongoDB(ctx context.Context) {
	if MongoClient == nil {
		return
	}
	if err := MongoClient.Disconnect(ctx); err != nil {
		logging.Logger.Error("failed to disconnect MongoDB", zap.Error(err))
	}
}

// maskMongoURI masks credentials in a MongoDB URI
func maskMongoURI(uri string) string {
	at := strings.LastIndex(uri, "@")
	if at < 0 {
		return uri
	}
	scheme := "mongodb://"
	if strings.HasPrefix(uri, "mongodb+srv://") {
		scheme = "mongodb+srv://"
	}
	return scheme + "****:****@" + uri[at+1:]
}

type indexSpec struct {
	collection string
	name       string
	keys       bson.D
	unique     bool
}

func requiredIndexes() []indexSpec {
	return []indexSpec{
		{collection: AppConfig.DepartmentPageCollection, name: "slug_1", keys: bson.D{{Key: "slug", Value: 1}}, unique: true},
		{collection: AppConfig.FacultyCollection, name: "department_1", keys: bson.D{{Key: "department", Value: 1}}},
		{collection: AppConfig.HODCollection, name: "department_1", keys: bson.D{{Key: "department", Value: 1}}},
		{collection: AppConfig.GalleryCollection, name: "department_1", keys: bson.D{{Key: "department", Value: 1}}},
		{collection: AppConfig.AuditLogsCollection, name: "slug_1_timestamp_-1", keys: bson.D{{Key: "slug", Value: 1}, {Key: "timestamp", Value: -1}}},
	}
}

// EnsureIndexes creates required indexes if they don't exist
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	logger := logging.Logger.Named("database")
	logger.Info("ensuring required indexes exist")

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, spec := range requiredIndexes() {
		if err := ensureIndex(ctx, logger, db, spec); err != nil {
			return err
		}
	}

	logger.Info("all required indexes verified")
	return nil
}

func ensureIndex(ctx context.Context, logger *logging.SafeLogger, db *mongo.Database, spec indexSpec) error {
	collection := db.Collection(spec.collection)

	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		logger.Error("failed to list indexes", zap.String("collection", spec.collection), zap.Error(err))
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var index bson.M
		if err := cursor.Decode(&index); err != nil {
			continue
		}
		if name, ok := index["name"].(string); ok && name == spec.name {
			logger.Debug("index already exists",
				zap.String("collection", spec.collection),
				zap.String("index", spec.name))
			return nil
		}
	}

	indexModel := mongo.IndexModel{
		Keys:    spec.keys,
		Options: options.Index().SetName(spec.name).SetUnique(spec.unique),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		// Another instance may have created it concurrently
		if mongo.IsDuplicateKeyError(err) {
			logger.Info("index already exists (created by another instance)",
				zap.String("collection", spec.collection))
			return nil
		}
		logger.Error("failed to create index",
			zap.String("collection", spec.collection),
			zap.String("index", spec.name),
			zap.Error(err))
		return fmt.Errorf("failed to create index %s on %s: %w", spec.name, spec.collection, err)
	}

	logger.Info("created index",
		zap.String("collection", spec.collection),
		zap.String("index", spec.name),
		zap.Bool("unique", spec.unique))
	return nil
}
