package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/viet-college/app-dept-pages/internal/config"
	"github.com/viet-college/app-dept-pages/internal/logging"
	"github.com/viet-college/app-dept-pages/internal/models"
	"github.com/viet-college/app-dept-pages/internal/observability"
	"github.com/viet-college/app-dept-pages/internal/redisclient"
	"github.com/viet-college/app-dept-pages/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	// curriculumProgramsField holds the curriculum programs outside of the
	// sections document so a sections overwrite never touches them
	curriculumProgramsField = "curriculum_programs"
	curriculumVersionField  = "curriculum_version"
	pageCacheKeyPrefix      = "department_page:"
	maxCurriculumRetries    = 3
)

// DepartmentPageService persists department pages in MongoDB behind a Redis cache
type DepartmentPageService struct {
	database   *mongo.Database
	collection string
	cache      *jsonCache
	cacheTTL   time.Duration
	logger     *logging.SafeLogger
}

// NewDepartmentPageService creates a new department page service instance
func NewDepartmentPageService(database *mongo.Database, cache *redisclient.Client, logger *logging.SafeLogger) *DepartmentPageService {
	return &DepartmentPageService{
		database:   database,
		collection: config.AppConfig.DepartmentPageCollection,
		cache:      newJSONCache(cache, logger),
		cacheTTL:   config.AppConfig.RedisTTL,
		logger:     logger,
	}
}

// Global department page service instance
var DepartmentPageServiceInstance *DepartmentPageService

// InitDepartmentPageService initializes the global department page service instance
func InitDepartmentPageService() {
	logger := logging.Logger.Named("department_page_service")
	DepartmentPageServiceInstance = NewDepartmentPageService(config.MongoDB, config.Redis, logger)
	logger.Info("department page service initialized successfully")
}

func pageCacheKey(slug string) string {
	return pageCacheKeyPrefix + slug
}

func (s *DepartmentPageService) coll() *mongo.Collection {
	return s.database.Collection(s.collection)
}

// GetBySlug returns the stored page exactly as persisted, with the curriculum
// programs folded back into its sections. A page never saved is ErrPageNotFound.
func (s *DepartmentPageService) GetBySlug(ctx context.Context, slug string) (bson.M, error) {
	key := pageCacheKey(slug)

	var cached map[string]interface{}
	if s.cache.get(ctx, key, "get_department_page", &cached) {
		s.logger.Debug("department page cache hit", zap.String("slug", slug))
		return bson.M(cached), nil
	}

	ctx, span := utils.TraceDatabaseFind(ctx, s.collection, "slug")
	defer span.End()

	var raw bson.M
	err := utils.FindOneWithTimeout(ctx, s.coll(), bson.M{"slug": slug}, &raw, utils.DefaultQueryTimeout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			observability.DatabaseOperations.WithLabelValues("find_page", "not_found").Inc()
			return nil, models.ErrPageNotFound
		}
		observability.DatabaseOperations.WithLabelValues("find_page", "error").Inc()
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"slug": slug})
		s.logger.Error("failed to get department page", zap.String("slug", slug), zap.Error(err))
		return nil, &models.PersistenceError{Op: "get department page", Err: err}
	}
	observability.DatabaseOperations.WithLabelValues("find_page", "success").Inc()

	page := assemblePage(raw)
	s.cache.set(ctx, key, page, s.cacheTTL)
	return page, nil
}

// GetDocument loads and migrates a page. A missing page yields the default
// document together with ErrPageNotFound.
func (s *DepartmentPageService) GetDocument(ctx context.Context, slug string) (models.Document, error) {
	raw, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return models.DefaultDocument(), err
	}
	return models.Migrate(raw["sections"]), nil
}

// UpdateSections overwrites the sections of a page, creating it on first save.
// Curriculum programs are stored apart and left as they are; a page that still
// embeds them in its sections has them moved to their own field in the same write.
func (s *DepartmentPageService) UpdateSections(ctx context.Context, slug string, doc models.Document) error {
	ctx, span := utils.TraceDatabaseUpsert(ctx, s.collection, "slug")
	defer span.End()

	// the first stage reads the old sections, so it must run before they are replaced
	update := bson.A{
		bson.M{"$set": bson.M{
			curriculumProgramsField: bson.M{"$ifNull": bson.A{
				"$" + curriculumProgramsField,
				bson.M{"$ifNull": bson.A{"$sections.curriculum.programs", bson.A{}}},
			}},
		}},
		bson.M{"$set": bson.M{
			"sections":       bson.M{"$literal": sectionsForStorage(doc)},
			"schema_version": models.CurrentSchemaVersion,
			"updated_at":     time.Now(),
		}},
	}

	if _, err := utils.UpsertOneWithTimeout(ctx, s.coll(), bson.M{"slug": slug}, update, utils.DefaultQueryTimeout); err != nil {
		observability.PageSaves.WithLabelValues("sections", "error").Inc()
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"slug": slug})
		s.logger.Error("failed to update department page sections", zap.String("slug", slug), zap.Error(err))
		return &models.PersistenceError{Op: "update sections", Err: err}
	}

	observability.PageSaves.WithLabelValues("sections", "success").Inc()
	s.cache.del(ctx, pageCacheKey(slug))
	s.logger.Info("department page sections updated", zap.String("slug", slug))
	return nil
}

// UploadSyllabus records an already-stored syllabus file for a program
// regulation. An existing regulation of the same name is replaced.
func (s *DepartmentPageService) UploadSyllabus(ctx context.Context, slug string, req models.SyllabusRequest) ([]models.Program, error) {
	programName := strings.TrimSpace(req.ProgramName)
	regulationName := strings.TrimSpace(req.RegulationName)
	if programName == "" || regulationName == "" {
		return nil, models.NewValidationError("", "program and regulation name required")
	}
	if strings.TrimSpace(req.FileURL) == "" {
		return nil, models.NewValidationError("fileUrl", "is required")
	}

	reg := models.Regulation{Name: regulationName, FileURL: req.FileURL, FileName: req.FileName}
	return s.mutateCurriculum(ctx, slug, "upload_syllabus", func(programs []models.Program) ([]models.Program, error) {
		return models.UpsertSyllabus(programs, programName, reg), nil
	})
}

// DeleteRegulation removes one regulation from a program; the program stays
func (s *DepartmentPageService) DeleteRegulation(ctx context.Context, slug, programName, regulationName string) ([]models.Program, error) {
	if strings.TrimSpace(programName) == "" || strings.TrimSpace(regulationName) == "" {
		return nil, models.NewValidationError("", "program and regulation name required")
	}
	return s.mutateCurriculum(ctx, slug, "delete_regulation", func(programs []models.Program) ([]models.Program, error) {
		return models.RemoveRegulation(programs, programName, regulationName)
	})
}

// mutateCurriculum runs a read-modify-write of the curriculum programs,
// retrying when another writer bumped the version in between
func (s *DepartmentPageService) mutateCurriculum(ctx context.Context, slug, kind string, mutate func([]models.Program) ([]models.Program, error)) ([]models.Program, error) {
	ctx, span := utils.TraceBusinessLogic(ctx, kind)
	defer span.End()

	var result []models.Program
	err := utils.RetryWithOptimisticLock(ctx, maxCurriculumRetries, func() error {
		programs, version, err := s.loadCurriculum(ctx, slug)
		if err != nil {
			return err
		}

		updated, err := mutate(programs)
		if err != nil {
			return err
		}

		update := bson.M{
			"$set": bson.M{curriculumProgramsField: updated},
			"$setOnInsert": bson.M{
				"schema_version": models.CurrentSchemaVersion,
			},
		}
		if _, err := utils.UpdateWithOptimisticLock(ctx, s.coll(), bson.M{"slug": slug}, update, curriculumVersionField, version, true); err != nil {
			return err
		}
		result = updated
		return nil
	})

	if err != nil {
		status := "error"
		if models.IsNotFound(err) {
			status = "not_found"
		}
		observability.PageSaves.WithLabelValues(kind, status).Inc()
		if models.IsNotFound(err) || models.IsValidationError(err) {
			return nil, err
		}
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"slug": slug})
		s.logger.Error("curriculum update failed", zap.String("slug", slug), zap.String("kind", kind), zap.Error(err))
		var pe *models.PersistenceError
		if errors.As(err, &pe) {
			return nil, err
		}
		return nil, &models.PersistenceError{Op: strings.ReplaceAll(kind, "_", " "), Err: err}
	}

	observability.PageSaves.WithLabelValues(kind, "success").Inc()
	s.cache.del(ctx, pageCacheKey(slug))
	s.logger.Info("curriculum updated",
		zap.String("slug", slug),
		zap.String("kind", kind),
		zap.Int("programs", len(result)))
	return result, nil
}

// loadCurriculum reads the programs and their version straight from MongoDB
func (s *DepartmentPageService) loadCurriculum(ctx context.Context, slug string) ([]models.Program, int32, error) {
	projection := bson.M{
		curriculumProgramsField:        1,
		curriculumVersionField:         1,
		"sections.curriculum.programs": 1,
	}

	var raw bson.M
	err := utils.FindOneWithProjectionAndTimeout(ctx, s.coll(), bson.M{"slug": slug}, projection, &raw, utils.DefaultQueryTimeout)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []models.Program{}, 0, nil
	}
	if err != nil {
		return nil, 0, &models.PersistenceError{Op: "load curriculum", Err: err}
	}

	page := assemblePage(raw)
	doc := models.Migrate(bson.M{models.SectionCurriculum: curriculumOf(page)})
	return doc.Curriculum.Programs, utils.VersionOf(raw, curriculumVersionField), nil
}

// UploadHeroImage records the hero image URL independently of the sections save
func (s *DepartmentPageService) UploadHeroImage(ctx context.Context, slug, imageURL string) error {
	return s.setHeroField(ctx, slug, "image", imageURL)
}

// UploadHeroVideo records the hero video URL independently of the sections save
func (s *DepartmentPageService) UploadHeroVideo(ctx context.Context, slug, videoURL string) error {
	return s.setHeroField(ctx, slug, "video", videoURL)
}

func (s *DepartmentPageService) setHeroField(ctx context.Context, slug, field, value string) error {
	ctx, span := utils.TraceDatabaseUpsert(ctx, s.collection, "slug")
	defer span.End()

	update := bson.M{
		"$set": bson.M{
			"sections.hero." + field: value,
			"updated_at":             time.Now(),
		},
		"$setOnInsert": bson.M{"schema_version": models.CurrentSchemaVersion},
	}
	if _, err := utils.UpsertOneWithTimeout(ctx, s.coll(), bson.M{"slug": slug}, update, utils.DefaultQueryTimeout); err != nil {
		observability.PageSaves.WithLabelValues("hero_"+field, "error").Inc()
		s.logger.Error("failed to update hero asset", zap.String("slug", slug), zap.String("field", field), zap.Error(err))
		return &models.PersistenceError{Op: "update hero " + field, Err: err}
	}

	observability.PageSaves.WithLabelValues("hero_"+field, "success").Inc()
	s.cache.del(ctx, pageCacheKey(slug))
	return nil
}

// ListSlugs returns the slug of every stored page
func (s *DepartmentPageService) ListSlugs(ctx context.Context) ([]string, error) {
	var rows []bson.M
	opts := options.Find().SetProjection(bson.M{"slug": 1}).SetSort(bson.D{{Key: "slug", Value: 1}})
	if err := utils.FindAllWithTimeout(ctx, s.coll(), bson.M{}, &rows, utils.DefaultQueryTimeout, opts); err != nil {
		return nil, &models.PersistenceError{Op: "list pages", Err: err}
	}

	slugs := make([]string, 0, len(rows))
	for _, row := range rows {
		if slug, ok := row["slug"].(string); ok && slug != "" {
			slugs = append(slugs, slug)
		}
	}
	return slugs, nil
}

// RewriteMigrated migrates the stored page in place, moves its curriculum
// programs into their own field and stamps the current schema version.
// With dryRun nothing is written.
func (s *DepartmentPageService) RewriteMigrated(ctx context.Context, slug string, dryRun bool) (models.MigrationReport, error) {
	var raw bson.M
	if err := utils.FindOneWithTimeout(ctx, s.coll(), bson.M{"slug": slug}, &raw, utils.DefaultQueryTimeout); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.MigrationReport{}, models.ErrPageNotFound
		}
		return models.MigrationReport{}, &models.PersistenceError{Op: "load page for migration", Err: err}
	}

	page := assemblePage(raw)
	doc, report := models.MigrateWithReport(page["sections"])
	if dryRun {
		return report, nil
	}

	update := bson.M{
		"$set": bson.M{
			"sections":              sectionsForStorage(doc),
			curriculumProgramsField: doc.Curriculum.Programs,
			"schema_version":        models.CurrentSchemaVersion,
		},
	}
	version := utils.VersionOf(raw, curriculumVersionField)
	if _, err := utils.UpdateWithOptimisticLock(ctx, s.coll(), bson.M{"slug": slug}, update, curriculumVersionField, version, false); err != nil {
		return report, &models.PersistenceError{Op: "rewrite migrated page", Err: err}
	}

	s.cache.del(ctx, pageCacheKey(slug))
	return report, nil
}

// InvalidateAll drops every cached page
func (s *DepartmentPageService) InvalidateAll(ctx context.Context) int {
	return s.cache.delPattern(ctx, pageCacheKeyPrefix+"*")
}

// sectionsForStorage strips the curriculum programs, which live in their own field
func sectionsForStorage(doc models.Document) models.Document {
	doc.Curriculum.Programs = []models.Program{}
	return doc
}

// assemblePage returns a copy of the stored page with the separately stored
// curriculum programs placed under sections.curriculum.programs. Pages written
// before the split keep the programs found in their sections.
func assemblePage(raw bson.M) bson.M {
	page := bson.M{}
	for k, v := range raw {
		if k == "_id" || k == curriculumProgramsField || k == curriculumVersionField {
			continue
		}
		page[k] = v
	}

	sections := bson.M{}
	if m, ok := toBSONMap(raw["sections"]); ok {
		for k, v := range m {
			sections[k] = v
		}
	}

	if programs, ok := raw[curriculumProgramsField]; ok && programs != nil {
		curriculum := bson.M{}
		if m, ok := toBSONMap(sections[models.SectionCurriculum]); ok {
			for k, v := range m {
				curriculum[k] = v
			}
		}
		curriculum["programs"] = programs
		sections[models.SectionCurriculum] = curriculum
	}

	page["sections"] = sections
	return page
}

func curriculumOf(page bson.M) interface{} {
	sections, _ := toBSONMap(page["sections"])
	return sections[models.SectionCurriculum]
}

func toBSONMap(v interface{}) (bson.M, bool) {
	switch m := v.(type) {
	case bson.M:
		return m, true
	case map[string]interface{}:
		return bson.M(m), true
	case bson.D:
		out := bson.M{}
		for _, e := range m {
			out[e.Key] = e.Value
		}
		return out, true
	}
	return nil, false
}

// String is used in log lines
func (s *DepartmentPageService) String() string {
	return fmt.Sprintf("DepartmentPageService(%s)", s.collection)
}
