package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends for uploaded assets
const (
	StorageBackendLocal  = "local"
	StorageBackendGridFS = "gridfs"
)

// Config holds all configuration values
type Config struct {
	// Server configuration
	Port        int    `json:"port"`
	Environment string `json:"environment"`

	// MongoDB configuration
	MongoURI      string `json:"mongo_uri"`
	MongoDatabase string `json:"mongo_database"`

	// Redis configuration
	RedisURI          string        `json:"redis_uri"`
	RedisPassword     string        `json:"redis_password"`
	RedisDB           int           `json:"redis_db"`
	RedisTTL          time.Duration `json:"redis_ttl"`
	DirectoryCacheTTL time.Duration `json:"directory_cache_ttl"`

	// Collection names
	DepartmentPageCollection string `json:"mongo_department_page_collection"`
	FacultyCollection        string `json:"mongo_faculty_collection"`
	HODCollection            string `json:"mongo_hod_collection"`
	GalleryCollection        string `json:"mongo_gallery_collection"`
	AuditLogsCollection      string `json:"mongo_audit_logs_collection"`

	// Asset storage configuration
	StorageBackend       string `json:"storage_backend"`
	StorageLocalPath     string `json:"storage_local_path"`
	StoragePublicBaseURL string `json:"storage_public_base_url"`
	UploadMaxBytes       int64  `json:"upload_max_bytes"`

	// Content configuration
	ReferenceDepartment string `json:"reference_department"`

	// Admin configuration
	AdminGroup       string `json:"admin_group"`
	AuditLogsEnabled bool   `json:"audit_logs_enabled"`

	// Tracing configuration
	TracingEnabled  bool   `json:"tracing_enabled"`
	TracingEndpoint string `json:"tracing_endpoint"`
}

var (
	AppConfig *Config
)

// LoadConfig loads configuration from environment variables
func LoadConfig() error {
	port, err := getEnvAsIntOrDefault("PORT", 8080)
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	redisDB, err := getEnvAsIntOrDefault("REDIS_DB", 0)
	if err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	redisTTL, err := time.ParseDuration(getEnvOrDefault("REDIS_TTL", "10m"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_TTL: %w", err)
	}

	directoryTTL, err := time.ParseDuration(getEnvOrDefault("DIRECTORY_CACHE_TTL", "5m"))
	if err != nil {
		return fmt.Errorf("invalid DIRECTORY_CACHE_TTL: %w", err)
	}

	uploadMax, err := strconv.ParseInt(getEnvOrDefault("UPLOAD_MAX_BYTES", "20971520"), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid UPLOAD_MAX_BYTES: %w", err)
	}
	if uploadMax <= 0 {
		return fmt.Errorf("invalid UPLOAD_MAX_BYTES: must be positive, got %d", uploadMax)
	}

	storageBackend := strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", StorageBackendLocal))
	if storageBackend != StorageBackendLocal && storageBackend != StorageBackendGridFS {
		return fmt.Errorf("invalid STORAGE_BACKEND %q: expected %q or %q", storageBackend, StorageBackendLocal, StorageBackendGridFS)
	}

	tracingEnabled, err := strconv.ParseBool(getEnvOrDefault("TRACING_ENABLED", "false"))
	if err != nil {
		return fmt.Errorf("invalid TRACING_ENABLED: %w", err)
	}

	auditEnabled, err := strconv.ParseBool(getEnvOrDefault("AUDIT_LOGS_ENABLED", "true"))
	if err != nil {
		return fmt.Errorf("invalid AUDIT_LOGS_ENABLED: %w", err)
	}

	AppConfig = &Config{
		// Server configuration
		Port:        port,
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),

		// MongoDB configuration
		MongoURI:      getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnvOrDefault("MONGODB_DATABASE", "dept_pages"),

		// Redis configuration
		RedisURI:          getEnvOrDefault("REDIS_URI", "localhost:6379"),
		RedisPassword:     getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:           redisDB,
		RedisTTL:          redisTTL,
		DirectoryCacheTTL: directoryTTL,

		// Collection names
		DepartmentPageCollection: getEnvOrDefault("MONGODB_DEPARTMENT_PAGE_COLLECTION", "department_pages"),
		FacultyCollection:        getEnvOrDefault("MONGODB_FACULTY_COLLECTION", "faculty"),
		HODCollection:            getEnvOrDefault("MONGODB_HOD_COLLECTION", "hods"),
		GalleryCollection:        getEnvOrDefault("MONGODB_GALLERY_COLLECTION", "gallery_images"),
		AuditLogsCollection:      getEnvOrDefault("MONGODB_AUDIT_LOGS_COLLECTION", "page_audit_logs"),

		// Asset storage configuration
		StorageBackend:       storageBackend,
		StorageLocalPath:     getEnvOrDefault("STORAGE_LOCAL_PATH", "./uploads"),
		StoragePublicBaseURL: strings.TrimRight(getEnvOrDefault("STORAGE_PUBLIC_BASE_URL", "http://localhost:8080/v1/assets"), "/"),
		UploadMaxBytes:       uploadMax,

		ReferenceDepartment: strings.ToLower(getEnvOrDefault("REFERENCE_DEPARTMENT", "cse")),
		AdminGroup:          getEnvOrDefault("ADMIN_GROUP", "cms:admin"),
		AuditLogsEnabled:    auditEnabled,

		TracingEnabled:  tracingEnabled,
		TracingEndpoint: getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault parses an integer environment variable, falling back to the default when unset
func getEnvAsIntOrDefault(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}
