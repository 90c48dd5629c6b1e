package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/viet-college/app-dept-pages/internal/config"
	"github.com/viet-college/app-dept-pages/internal/logging"
	"github.com/viet-college/app-dept-pages/internal/models"
	"github.com/viet-college/app-dept-pages/internal/observability"
	"github.com/viet-college/app-dept-pages/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Asset is an opened stored file
type Asset struct {
	Body        io.ReadCloser
	Name        string
	ContentType string
	Size        int64
}

// AssetStorage uploads files into named buckets and serves them back
type AssetStorage interface {
	Upload(ctx context.Context, file models.File, bucket string) (string, error)
	Open(ctx context.Context, bucket, id string) (*Asset, error)
}

// NewAssetStorage builds the backend selected by STORAGE_BACKEND
func NewAssetStorage(database *mongo.Database, logger *logging.SafeLogger) AssetStorage {
	cfg := config.AppConfig
	if cfg.StorageBackend == config.StorageBackendGridFS {
		return NewGridFSStorage(database, cfg.StoragePublicBaseURL, logger)
	}
	return NewLocalStorage(cfg.StorageLocalPath, cfg.StoragePublicBaseURL, logger)
}

func checkUpload(file models.File, bucket string) error {
	if !models.IsValidBucket(bucket) {
		return fmt.Errorf("%w: %q", models.ErrInvalidBucket, bucket)
	}
	if file.Empty() {
		return models.NewValidationError("file", "select a file first")
	}
	return nil
}

func contentTypeOf(file models.File) string {
	if file.ContentType != "" && file.ContentType != "application/octet-stream" {
		return file.ContentType
	}
	return mimetype.Detect(file.Data).String()
}

func storedName(file models.File) string {
	ext := strings.ToLower(filepath.Ext(file.BaseName()))
	if ext == "" {
		ext = mimetype.Detect(file.Data).Extension()
	}
	return utils.GenerateUUID() + ext
}

func recordUpload(bucket string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	observability.AssetUploads.WithLabelValues(bucket, status).Inc()
}

// LocalStorage keeps assets on disk, one directory per bucket
type LocalStorage struct {
	root    string
	baseURL string
	logger  *logging.SafeLogger
}

// NewLocalStorage creates a disk-backed asset store rooted at root
func NewLocalStorage(root, baseURL string, logger *logging.SafeLogger) *LocalStorage {
	return &LocalStorage{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Upload writes the file under a fresh name and returns its public URL
func (s *LocalStorage) Upload(ctx context.Context, file models.File, bucket string) (string, error) {
	if err := checkUpload(file, bucket); err != nil {
		return "", err
	}
	_, span := utils.TraceStorageUpload(ctx, config.StorageBackendLocal, bucket, int64(len(file.Data)))
	defer span.End()

	dir := filepath.Join(s.root, bucket)
	name := storedName(file)

	err := os.MkdirAll(dir, 0o755)
	if err == nil {
		err = os.WriteFile(filepath.Join(dir, name), file.Data, 0o644)
	}
	recordUpload(bucket, err)
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"bucket": bucket})
		s.logger.Error("failed to store asset", zap.String("bucket", bucket), zap.Error(err))
		return "", &models.UploadError{Bucket: bucket, Err: err}
	}

	s.logger.Info("asset stored",
		zap.String("bucket", bucket),
		zap.String("name", name),
		zap.Int("size", len(file.Data)))
	return fmt.Sprintf("%s/%s/%s", s.baseURL, bucket, name), nil
}

// Open returns a stored asset; names carrying a path are rejected
func (s *LocalStorage) Open(ctx context.Context, bucket, id string) (*Asset, error) {
	if !models.IsValidBucket(bucket) {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidBucket, bucket)
	}
	if id == "" || filepath.Base(id) != id || strings.HasPrefix(id, ".") {
		return nil, models.ErrAssetNotFound
	}

	path := filepath.Join(s.root, bucket, id)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, models.ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to open asset: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat asset: %w", err)
	}

	mt, err := mimetype.DetectFile(path)
	contentType := "application/octet-stream"
	if err == nil {
		contentType = mt.String()
	}

	return &Asset{Body: f, Name: id, ContentType: contentType, Size: info.Size()}, nil
}

// GridFSStorage keeps assets in MongoDB GridFS, one GridFS bucket per storage bucket
type GridFSStorage struct {
	database *mongo.Database
	baseURL  string
	logger   *logging.SafeLogger
}

// NewGridFSStorage creates a GridFS-backed asset store
func NewGridFSStorage(database *mongo.Database, baseURL string, logger *logging.SafeLogger) *GridFSStorage {
	return &GridFSStorage{
		database: database,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
	}
}

func (s *GridFSStorage) bucket(ctx context.Context, name string) (*gridfs.Bucket, error) {
	b, err := gridfs.NewBucket(s.database, options.GridFSBucket().SetName(name))
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = b.SetWriteDeadline(deadline)
		_ = b.SetReadDeadline(deadline)
	}
	return b, nil
}

// Upload streams the file into GridFS and returns its public URL
func (s *GridFSStorage) Upload(ctx context.Context, file models.File, bucket string) (string, error) {
	if err := checkUpload(file, bucket); err != nil {
		return "", err
	}
	ctx, span := utils.TraceStorageUpload(ctx, config.StorageBackendGridFS, bucket, int64(len(file.Data)))
	defer span.End()

	b, err := s.bucket(ctx, bucket)
	if err != nil {
		recordUpload(bucket, err)
		return "", &models.UploadError{Bucket: bucket, Err: err}
	}

	metadata := bson.M{
		"contentType":  contentTypeOf(file),
		"originalName": file.BaseName(),
	}
	id, err := b.UploadFromStream(storedName(file), bytes.NewReader(file.Data), options.GridFSUpload().SetMetadata(metadata))
	recordUpload(bucket, err)
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"bucket": bucket})
		s.logger.Error("failed to store asset in gridfs", zap.String("bucket", bucket), zap.Error(err))
		return "", &models.UploadError{Bucket: bucket, Err: err}
	}

	s.logger.Info("asset stored in gridfs",
		zap.String("bucket", bucket),
		zap.String("id", id.Hex()),
		zap.Int("size", len(file.Data)))
	return fmt.Sprintf("%s/%s/%s", s.baseURL, bucket, id.Hex()), nil
}

// Open returns a GridFS download stream for the asset id
func (s *GridFSStorage) Open(ctx context.Context, bucket, id string) (*Asset, error) {
	if !models.IsValidBucket(bucket) {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidBucket, bucket)
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrAssetNotFound
	}

	b, err := s.bucket(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to open gridfs bucket: %w", err)
	}

	stream, err := b.OpenDownloadStream(oid)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, models.ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to open asset: %w", err)
	}

	f := stream.GetFile()
	contentType := "application/octet-stream"
	if f.Metadata != nil {
		if v, err := f.Metadata.LookupErr("contentType"); err == nil {
			if ct, ok := v.StringValueOK(); ok && ct != "" {
				contentType = ct
			}
		}
	}

	return &Asset{Body: stream, Name: f.Name, ContentType: contentType, Size: f.Length}, nil
}
