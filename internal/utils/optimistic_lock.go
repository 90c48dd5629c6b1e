package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/viet-college/app-dept-pages/internal/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// OptimisticLockError represents an optimistic locking conflict
type OptimisticLockError struct {
	Resource string
	Message  string
}

func (e OptimisticLockError) Error() string {
	return fmt.Sprintf("optimistic lock conflict for %s: %s", e.Resource, e.Message)
}

// IsOptimisticLockError reports whether err is or wraps an OptimisticLockError
func IsOptimisticLockError(err error) bool {
	var lockErr OptimisticLockError
	return errors.As(err, &lockErr)
}

// OptimisticUpdateResult represents the result of an optimistic update
type OptimisticUpdateResult struct {
	ModifiedCount int64
	Upserted      bool
	Version       int32
	UpdatedAt     time.Time
}

// VersionFilter matches documents whose versionField equals expected. Version 0
// also matches documents that never had the field.
func VersionFilter(versionField string, expected int32) bson.M {
	if expected == 0 {
		return bson.M{"$or": bson.A{
			bson.M{versionField: 0},
			bson.M{versionField: bson.M{"$exists": false}},
		}}
	}
	return bson.M{versionField: expected}
}

// UpdateWithOptimisticLock applies update only if the document still carries
// expectedVersion in versionField, bumping the version in the same write. With
// upsert, a missing document is created; a concurrent creation surfaces as a
// duplicate key error and is reported as a conflict.
func UpdateWithOptimisticLock(ctx context.Context, collection *mongo.Collection, filter bson.M, update bson.M, versionField string, expectedVersion int32, upsert bool) (*OptimisticUpdateResult, error) {
	logger := logging.Logger.With(
		zap.String("collection", collection.Name()),
		zap.String("version_field", versionField),
		zap.Int32("expected_version", expectedVersion),
	)

	guarded := bson.M{}
	for k, v := range filter {
		guarded[k] = v
	}
	for k, v := range VersionFilter(versionField, expectedVersion) {
		guarded[k] = v
	}

	newVersion := expectedVersion + 1
	now := time.Now()

	set, _ := update["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
		update["$set"] = set
	}
	set[versionField] = newVersion
	set["updated_at"] = now

	result, err := collection.UpdateOne(ctx, guarded, update, options.Update().SetUpsert(upsert))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			logger.Warn("optimistic lock conflict detected on upsert")
			return nil, OptimisticLockError{
				Resource: collection.Name(),
				Message:  fmt.Sprintf("document changed before version %d could be written", expectedVersion),
			}
		}
		logger.Error("failed to perform optimistic update", zap.Error(err))
		return nil, fmt.Errorf("failed to perform optimistic update: %w", err)
	}

	if result.MatchedCount == 0 && result.UpsertedCount == 0 {
		existingVersion, err := GetDocumentVersion(ctx, collection, filter, versionField)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("document not found")
		}
		if err != nil {
			logger.Error("failed to check existing document", zap.Error(err))
			return nil, fmt.Errorf("failed to check existing document: %w", err)
		}

		logger.Warn("optimistic lock conflict detected",
			zap.Int32("actual_version", existingVersion))

		return nil, OptimisticLockError{
			Resource: collection.Name(),
			Message:  fmt.Sprintf("expected version %d, but document has version %d", expectedVersion, existingVersion),
		}
	}

	logger.Debug("optimistic update successful",
		zap.Int64("modified_count", result.ModifiedCount),
		zap.Int32("new_version", newVersion))

	return &OptimisticUpdateResult{
		ModifiedCount: result.ModifiedCount,
		Upserted:      result.UpsertedCount > 0,
		Version:       newVersion,
		UpdatedAt:     now,
	}, nil
}

// GetDocumentVersion reads versionField of the document matching filter. A
// document without the field is at version 0.
func GetDocumentVersion(ctx context.Context, collection *mongo.Collection, filter bson.M, versionField string) (int32, error) {
	var doc bson.M
	err := collection.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{versionField: 1})).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return VersionOf(doc, versionField), nil
}

// VersionOf extracts a version number from a decoded document
func VersionOf(doc bson.M, versionField string) int32 {
	switch v := doc[versionField].(type) {
	case int32:
		return v
	case int64:
		return int32(v)
	case float64:
		return int32(v)
	case int:
		return int32(v)
	}
	return 0
}

// RetryWithOptimisticLock retries an operation with exponential backoff on optimistic lock conflicts
func RetryWithOptimisticLock(ctx context.Context, maxRetries int, operation func() error) error {
	return retryWithBackoff(ctx, maxRetries, 100*time.Millisecond, operation)
}

func retryWithBackoff(ctx context.Context, maxRetries int, base time.Duration, operation func() error) error {
	logger := logging.Logger.With(zap.String("operation", "retry_with_optimistic_lock"))

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		if !IsOptimisticLockError(err) {
			return err
		}

		if attempt == maxRetries {
			logger.Error("max retries reached for optimistic lock",
				zap.Int("attempts", attempt+1),
				zap.Error(err))
			return err
		}

		// Exponential backoff: wait 2^attempt * base
		backoff := time.Duration(1<<attempt) * base
		logger.Info("optimistic lock conflict, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return fmt.Errorf("max retries exceeded")
}
