// Package editor holds the admin editing session of a department page: a
// working copy of one page, list editing helpers, asset uploads and the save
// and curriculum operations that reach the page store.
package editor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/viet-college/app-dept-pages/internal/logging"
	"github.com/viet-college/app-dept-pages/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// PageStore persists department pages
type PageStore interface {
	GetBySlug(ctx context.Context, slug string) (bson.M, error)
	UpdateSections(ctx context.Context, slug string, doc models.Document) error
	UploadSyllabus(ctx context.Context, slug string, req models.SyllabusRequest) ([]models.Program, error)
	DeleteRegulation(ctx context.Context, slug, programName, regulationName string) ([]models.Program, error)
	UploadHeroImage(ctx context.Context, slug, imageURL string) error
	UploadHeroVideo(ctx context.Context, slug, videoURL string) error
}

// ObjectStorage uploads files and returns their public URL
type ObjectStorage interface {
	Upload(ctx context.Context, file models.File, bucket string) (string, error)
}

// Operation names used in notifications
const (
	OpLoad             = "load"
	OpSaveSections     = "save_sections"
	OpUploadAsset      = "upload_asset"
	OpUploadHeroImage  = "upload_hero_image"
	OpUploadHeroVideo  = "upload_hero_video"
	OpUploadSyllabus   = "upload_syllabus"
	OpDeleteRegulation = "delete_regulation"
)

// RegulationRef names one regulation of a curriculum program
type RegulationRef struct {
	Program    string `json:"program"`
	Regulation string `json:"regulation"`
}

// Editor is the editing session of one operator. All methods are safe for
// concurrent use; network calls run without holding the lock, and their
// results are dropped when the selected slug changed in the meantime.
type Editor struct {
	store    PageStore
	storage  ObjectStorage
	notifier Notifier
	logger   *logging.SafeLogger

	mu            sync.Mutex
	slug          string
	doc           models.Document
	activeSection string
	generation    uint64
	slugCtx       context.Context
	cancelSlug    context.CancelFunc

	pendingHeroImage *models.File
	pendingHeroVideo *models.File
	uploading        map[string]bool
	pendingDelete    *RegulationRef
}

// New creates an editor with no department selected
func New(store PageStore, storage ObjectStorage, notifier Notifier, logger *logging.SafeLogger) *Editor {
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	slugCtx, cancel := context.WithCancel(context.Background())
	return &Editor{
		store:         store,
		storage:       storage,
		notifier:      notifier,
		logger:        logger,
		doc:           models.DefaultDocument(),
		activeSection: models.SectionHero,
		slugCtx:       slugCtx,
		cancelSlug:    cancel,
		uploading:     make(map[string]bool),
	}
}

// Slug returns the selected department
func (e *Editor) Slug() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.slug
}

// Document returns a copy of the working document
func (e *Editor) Document() models.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return models.CloneDocument(e.doc)
}

// ActiveSection returns the section tab being edited
func (e *Editor) ActiveSection() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeSection
}

// SelectSection switches the section tab
func (e *Editor) SelectSection(key string) error {
	if !models.IsValidSection(key) {
		return models.ErrUnknownSection
	}
	e.mu.Lock()
	e.activeSection = key
	e.mu.Unlock()
	return nil
}

// Load selects slug and replaces the working copy with its stored document.
// Work still in flight for the previous slug is cancelled and unsaved edits
// are discarded. A page never saved loads as the default document; any other
// failure also leaves the default document and is returned.
func (e *Editor) Load(ctx context.Context, slug string) error {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return models.NewValidationError("slug", "select a department first")
	}

	e.mu.Lock()
	e.cancelSlug()
	e.slugCtx, e.cancelSlug = context.WithCancel(context.Background())
	e.generation++
	e.slug = slug
	e.doc = models.DefaultDocument()
	e.pendingHeroImage = nil
	e.pendingHeroVideo = nil
	e.pendingDelete = nil
	e.uploading = make(map[string]bool)
	e.mu.Unlock()

	op, err := e.begin(ctx)
	if err != nil {
		return err
	}
	defer op.end()

	doc, err := e.fetch(op)
	if err != nil {
		if errors.Is(err, models.ErrPageNotFound) {
			e.logger.Debug("department page not saved yet", zap.String("slug", slug))
			return nil
		}
		if errors.Is(err, models.ErrStaleSlug) {
			return err
		}
		e.fail(op, OpLoad, "Failed to load page, showing defaults", err)
		return err
	}

	if err := e.commit(op, func() { e.doc = doc }); err != nil {
		return err
	}
	return nil
}

// SwitchSlug is Load under the name the admin panel uses for the department picker
func (e *Editor) SwitchSlug(ctx context.Context, slug string) error {
	return e.Load(ctx, slug)
}

// Close cancels any work still in flight
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelSlug()
}

// SetField assigns a scalar field of a section
func (e *Editor) SetField(section, field, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	target, err := e.doc.Section(section)
	if err != nil {
		return err
	}
	return models.SetStringField(target, field, value)
}

// Import replaces the working copy with raw migrated to the current schema.
// Curriculum programs are owned by the curriculum operations and are kept.
func (e *Editor) Import(raw interface{}) error {
	doc := models.Migrate(raw)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.slug == "" {
		return models.ErrNoSlugSelected
	}
	doc.Curriculum.Programs = models.CopyPrograms(e.doc.Curriculum.Programs)
	e.doc = doc
	return nil
}

// operation ties a network call to the slug selected when it started
type operation struct {
	ctx        context.Context
	slug       string
	generation uint64
	end        func()
}

func (e *Editor) begin(ctx context.Context) (*operation, error) {
	e.mu.Lock()
	slug, gen, slugCtx := e.slug, e.generation, e.slugCtx
	e.mu.Unlock()

	if slug == "" {
		return nil, models.ErrNoSlugSelected
	}

	opCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(slugCtx, cancel)
	return &operation{
		ctx:        opCtx,
		slug:       slug,
		generation: gen,
		end: func() {
			stop()
			cancel()
		},
	}, nil
}

// current reports whether op still belongs to the selected slug. Callers hold e.mu.
func (e *Editor) current(op *operation) bool {
	return e.generation == op.generation && op.ctx.Err() == nil
}

// commit applies fn to the editor state unless op went stale
func (e *Editor) commit(op *operation, fn func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.current(op) {
		return models.ErrStaleSlug
	}
	fn()
	return nil
}

// stale converts a failure caused by a slug switch into ErrStaleSlug
func (e *Editor) stale(op *operation, err error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.current(op) {
		e.logger.Debug("dropping result of previous department",
			zap.String("slug", op.slug),
			zap.Error(err))
		return models.ErrStaleSlug
	}
	return err
}

func (e *Editor) fetch(op *operation) (models.Document, error) {
	raw, err := e.store.GetBySlug(op.ctx, op.slug)
	if err != nil {
		if errors.Is(err, models.ErrPageNotFound) {
			return models.DefaultDocument(), err
		}
		if !models.IsPersistenceError(err) {
			err = &models.PersistenceError{Op: "load page", Err: err}
		}
		return models.DefaultDocument(), e.stale(op, err)
	}
	return models.Migrate(raw["sections"]), nil
}

func (e *Editor) notify(op *operation, level Level, operation, message string, err error) {
	e.notifier.Notify(Notification{
		Level:     level,
		Operation: operation,
		Slug:      op.slug,
		Message:   message,
		Err:       err,
		Time:      time.Now(),
	})
}

func (e *Editor) succeed(op *operation, operation, message string) {
	e.notify(op, LevelSuccess, operation, message, nil)
}

func (e *Editor) fail(op *operation, operation, message string, err error) {
	if errors.Is(err, models.ErrStaleSlug) {
		return
	}
	e.notify(op, LevelError, operation, message+": "+err.Error(), err)
}
