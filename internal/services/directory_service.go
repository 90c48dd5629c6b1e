package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/viet-college/app-dept-pages/internal/config"
	"github.com/viet-college/app-dept-pages/internal/logging"
	"github.com/viet-college/app-dept-pages/internal/models"
	"github.com/viet-college/app-dept-pages/internal/observability"
	"github.com/viet-college/app-dept-pages/internal/redisclient"
	"github.com/viet-college/app-dept-pages/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	facultyCacheKey = "directory:faculty:all"
	hodCacheKey     = "directory:hods:all"
	galleryCacheKey = "gallery:images:all"
)

// DirectoryService serves the full faculty and HOD sets
type DirectoryService struct {
	database          *mongo.Database
	facultyCollection string
	hodCollection     string
	cache             *jsonCache
	cacheTTL          time.Duration
	logger            *logging.SafeLogger
}

// NewDirectoryService creates a new directory service instance
func NewDirectoryService(database *mongo.Database, cache *redisclient.Client, logger *logging.SafeLogger) *DirectoryService {
	return &DirectoryService{
		database:          database,
		facultyCollection: config.AppConfig.FacultyCollection,
		hodCollection:     config.AppConfig.HODCollection,
		cache:             newJSONCache(cache, logger),
		cacheTTL:          config.AppConfig.DirectoryCacheTTL,
		logger:            logger,
	}
}

// GetAllFaculty returns every faculty member, unfiltered
func (s *DirectoryService) GetAllFaculty(ctx context.Context) ([]models.FacultyMember, error) {
	return s.loadAll(ctx, s.facultyCollection, facultyCacheKey, "get_all_faculty")
}

// GetAllHODs returns every head of department, unfiltered
func (s *DirectoryService) GetAllHODs(ctx context.Context) ([]models.HOD, error) {
	return s.loadAll(ctx, s.hodCollection, hodCacheKey, "get_all_hods")
}

func (s *DirectoryService) loadAll(ctx context.Context, collection, cacheKey, operation string) ([]models.DirectoryEntry, error) {
	var cached []models.DirectoryEntry
	if s.cache.get(ctx, cacheKey, operation, &cached) {
		return cached, nil
	}

	ctx, span := utils.TraceDatabaseFind(ctx, collection, "all")
	defer span.End()

	var rows []bson.M
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if err := utils.FindAllWithTimeout(ctx, s.database.Collection(collection), bson.M{}, &rows, utils.DefaultQueryTimeout, opts); err != nil {
		observability.DatabaseOperations.WithLabelValues(operation, "error").Inc()
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"collection": collection})
		s.logger.Error("failed to list directory", zap.String("collection", collection), zap.Error(err))
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	observability.DatabaseOperations.WithLabelValues(operation, "success").Inc()

	entries := make([]models.DirectoryEntry, 0, len(rows))
	for _, row := range rows {
		entry := convertRawToDirectoryEntry(row)
		if entry.Name == "" {
			s.logger.Debug("skipping directory entry without name",
				zap.String("collection", collection),
				zap.String("id", entry.ID),
				zap.String("email", observability.MaskEmail(entry.Email)))
			continue
		}
		entries = append(entries, entry)
	}

	s.cache.set(ctx, cacheKey, entries, s.cacheTTL)
	return entries, nil
}

// Invalidate drops the cached faculty and HOD sets
func (s *DirectoryService) Invalidate(ctx context.Context) {
	s.cache.del(ctx, facultyCacheKey, hodCacheKey)
}

// convertRawToDirectoryEntry reads a directory row written by hand or by older
// imports, where ids may be ObjectIDs and numbers may be stored as numbers
func convertRawToDirectoryEntry(raw bson.M) models.DirectoryEntry {
	return models.DirectoryEntry{
		ID:             rawID(raw["_id"]),
		Name:           rawString(raw["name"]),
		Designation:    rawString(raw["designation"]),
		Qualification:  rawString(raw["qualification"]),
		Email:          rawString(raw["email"]),
		Phone:          rawString(raw["phone"]),
		Experience:     rawString(raw["experience"]),
		Department:     rawString(raw["department"]),
		DepartmentSlug: rawString(raw["department_slug"]),
		Image:          rawString(raw["image"]),
		Resume:         rawString(raw["resume"]),
	}
}

func rawID(v interface{}) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case nil:
		return ""
	}
	return rawString(v)
}

func rawString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	}
	return ""
}

// GalleryService serves the full gallery image set
type GalleryService struct {
	database   *mongo.Database
	collection string
	cache      *jsonCache
	cacheTTL   time.Duration
	logger     *logging.SafeLogger
}

// NewGalleryService creates a new gallery service instance
func NewGalleryService(database *mongo.Database, cache *redisclient.Client, logger *logging.SafeLogger) *GalleryService {
	return &GalleryService{
		database:   database,
		collection: config.AppConfig.GalleryCollection,
		cache:      newJSONCache(cache, logger),
		cacheTTL:   config.AppConfig.DirectoryCacheTTL,
		logger:     logger,
	}
}

// GetAllImages returns every gallery image, unfiltered
func (s *GalleryService) GetAllImages(ctx context.Context) ([]models.GalleryImage, error) {
	var cached []models.GalleryImage
	if s.cache.get(ctx, galleryCacheKey, "get_all_images", &cached) {
		return cached, nil
	}

	ctx, span := utils.TraceDatabaseFind(ctx, s.collection, "all")
	defer span.End()

	var rows []bson.M
	if err := utils.FindAllWithTimeout(ctx, s.database.Collection(s.collection), bson.M{}, &rows, utils.DefaultQueryTimeout); err != nil {
		observability.DatabaseOperations.WithLabelValues("get_all_images", "error").Inc()
		s.logger.Error("failed to list gallery images", zap.Error(err))
		return nil, fmt.Errorf("failed to list gallery images: %w", err)
	}
	observability.DatabaseOperations.WithLabelValues("get_all_images", "success").Inc()

	images := make([]models.GalleryImage, 0, len(rows))
	for _, row := range rows {
		img := models.GalleryImage{
			ID:         rawID(row["_id"]),
			Src:        rawString(row["src"]),
			Alt:        rawString(row["alt"]),
			Department: rawString(row["department"]),
		}
		if img.Src == "" {
			continue
		}
		images = append(images, img)
	}

	s.cache.set(ctx, galleryCacheKey, images, s.cacheTTL)
	return images, nil
}
