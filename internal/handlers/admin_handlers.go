package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/viet-college/app-dept-pages/internal/logging"
	"github.com/viet-college/app-dept-pages/internal/middleware"
	"github.com/viet-college/app-dept-pages/internal/models"
	"github.com/viet-college/app-dept-pages/internal/services"
	"github.com/viet-college/app-dept-pages/internal/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var errFileTooLarge = errors.New("file too large")

// CacheInvalidateResponse reports how many cached pages were dropped
type CacheInvalidateResponse struct {
	Invalidated int `json:"invalidated"`
}

// AdminHandlers serves the editor's write endpoints
type AdminHandlers struct {
	logger         *logging.SafeLogger
	pages          PageService
	storage        services.AssetStorage
	maxUploadBytes int64
	audit          *utils.AuditWorker
}

// NewAdminHandlers creates the admin handlers. maxUploadBytes <= 0 disables the size limit.
func NewAdminHandlers(logger *logging.SafeLogger, pages PageService, storage services.AssetStorage, maxUploadBytes int64) *AdminHandlers {
	return &AdminHandlers{
		logger:         logger,
		pages:          pages,
		storage:        storage,
		maxUploadBytes: maxUploadBytes,
	}
}

// WithAudit records every successful change on aw. A nil worker disables auditing.
func (h *AdminHandlers) WithAudit(aw *utils.AuditWorker) *AdminHandlers {
	h.audit = aw
	return h
}

func (h *AdminHandlers) record(c *gin.Context, action, resource, slug string, metadata map[string]string) {
	h.audit.Record(c.Request.Context(), utils.AuditContext{
		Operator:  middleware.Operator(c),
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
		RequestID: c.GetString(middleware.RequestIDKey),
	}, action, resource, slug, metadata)
}

// UpdateSections godoc
// @Summary Overwrite the sections of a page
// @Description Accepts a sections document in any stored shape; it is migrated before saving. Curriculum programs are left untouched.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Department slug"
// @Param data body models.SectionsRequest true "Sections document"
// @Success 200 {object} models.DepartmentPage
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/pages/{slug}/sections [put]
func (h *AdminHandlers) UpdateSections(c *gin.Context) {
	start := time.Now()
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "UpdateSections")
	defer span.End()

	slug, err := pageSlug(c)
	if err != nil {
		respondError(c, span, h.logger, "invalid slug", err)
		return
	}
	span.SetAttributes(attribute.String("page.slug", slug))

	_, parseSpan := utils.TraceInputParsing(ctx, "sections_request")
	var doc models.Document
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		err = models.NewValidationError("sections", "failed to read request body")
	} else {
		doc, err = models.DecodeSectionsPayload(body)
	}
	if err != nil {
		utils.RecordErrorInSpan(parseSpan, err, map[string]interface{}{"input.type": "SectionsRequest"})
		parseSpan.End()
		respondError(c, span, h.logger, "invalid sections body", err)
		return
	}
	parseSpan.End()

	if err := h.pages.UpdateSections(ctx, slug, doc); err != nil {
		respondError(c, span, h.logger, "failed to save sections", err)
		return
	}

	// the stored curriculum may differ from what the client sent
	saved, err := h.pages.GetDocument(ctx, slug)
	if err != nil {
		h.logger.Warn("sections saved but reload failed", zap.String("slug", slug), zap.Error(err))
		saved = doc
	}

	now := time.Now().UTC()
	c.JSON(http.StatusOK, models.DepartmentPage{
		Slug:          slug,
		Sections:      saved,
		SchemaVersion: models.CurrentSchemaVersion,
		UpdatedAt:     &now,
	})
	h.record(c, utils.AuditActionUpdate, utils.AuditResourceSections, slug, nil)
	h.logger.Info("sections saved",
		zap.String("slug", slug),
		zap.String("operator", middleware.Operator(c)),
		zap.Duration("duration", time.Since(start)))
}

// UploadSyllabus godoc
// @Summary Add or replace a syllabus regulation
// @Description Multipart form with programName, regulationName and file uploads the file then registers it. A JSON body registers a file that is already stored.
// @Tags admin
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Department slug"
// @Param programName formData string false "Program name"
// @Param regulationName formData string false "Regulation name"
// @Param file formData file false "Syllabus file"
// @Success 200 {object} models.CurriculumResponse
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/pages/{slug}/curriculum [post]
func (h *AdminHandlers) UploadSyllabus(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "UploadSyllabus")
	defer span.End()

	slug, err := pageSlug(c)
	if err != nil {
		respondError(c, span, h.logger, "invalid slug", err)
		return
	}

	var req models.SyllabusRequest
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, err := h.formFile(c)
		if err != nil {
			h.respondUploadError(c, span, err)
			return
		}
		req.ProgramName = strings.TrimSpace(c.PostForm("programName"))
		req.RegulationName = strings.TrimSpace(c.PostForm("regulationName"))
		if req.ProgramName == "" || req.RegulationName == "" {
			respondError(c, span, h.logger, "invalid syllabus request",
				models.NewValidationError("programName", "program and regulation name required"))
			return
		}

		url, err := h.storage.Upload(ctx, file, models.BucketSyllabus)
		if err != nil {
			respondError(c, span, h.logger, "failed to upload syllabus", err)
			return
		}
		req.FileURL = url
		req.FileName = file.BaseName()
	} else {
		_, parseSpan := utils.TraceInputParsing(ctx, "syllabus_request")
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RecordErrorInSpan(parseSpan, err, map[string]interface{}{"input.type": "SyllabusRequest"})
			parseSpan.End()
			respondError(c, span, h.logger, "invalid syllabus request",
				models.NewValidationError("body", "program name, regulation name and file url required"))
			return
		}
		parseSpan.End()
	}

	span.SetAttributes(
		attribute.String("page.slug", slug),
		attribute.String("curriculum.program", req.ProgramName),
		attribute.String("curriculum.regulation", req.RegulationName),
	)

	programs, err := h.pages.UploadSyllabus(ctx, slug, req)
	if err != nil {
		respondError(c, span, h.logger, "failed to register syllabus", err)
		return
	}
	c.JSON(http.StatusOK, models.CurriculumResponse{Slug: slug, Programs: programs})
	h.record(c, utils.AuditActionUpload, utils.AuditResourceCurriculum, slug, map[string]string{
		"program":    req.ProgramName,
		"regulation": req.RegulationName,
		"file_url":   req.FileURL,
	})
	h.logger.Info("syllabus registered",
		zap.String("slug", slug),
		zap.String("program", req.ProgramName),
		zap.String("regulation", req.RegulationName),
		zap.String("operator", middleware.Operator(c)))
}

// DeleteRegulation godoc
// @Summary Delete a syllabus regulation
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Department slug"
// @Param program query string true "Program name"
// @Param regulation query string true "Regulation name"
// @Success 200 {object} models.CurriculumResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/pages/{slug}/curriculum [delete]
func (h *AdminHandlers) DeleteRegulation(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "DeleteRegulation")
	defer span.End()

	slug, err := pageSlug(c)
	if err != nil {
		respondError(c, span, h.logger, "invalid slug", err)
		return
	}
	program := strings.TrimSpace(c.Query("program"))
	regulation := strings.TrimSpace(c.Query("regulation"))
	if program == "" || regulation == "" {
		respondError(c, span, h.logger, "invalid delete request",
			models.NewValidationError("program", "program and regulation name required"))
		return
	}

	programs, err := h.pages.DeleteRegulation(ctx, slug, program, regulation)
	if err != nil {
		respondError(c, span, h.logger, "failed to delete regulation", err)
		return
	}
	c.JSON(http.StatusOK, models.CurriculumResponse{Slug: slug, Programs: programs})
	h.record(c, utils.AuditActionDelete, utils.AuditResourceCurriculum, slug, map[string]string{
		"program":    program,
		"regulation": regulation,
	})
	h.logger.Info("regulation deleted",
		zap.String("slug", slug),
		zap.String("program", program),
		zap.String("regulation", regulation),
		zap.String("operator", middleware.Operator(c)))
}

// UpdateHero godoc
// @Summary Persist hero media
// @Description Sets the hero image and/or video URL without touching the rest of the page
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Department slug"
// @Param data body models.HeroAssetsRequest true "Hero media URLs"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/pages/{slug}/hero [put]
func (h *AdminHandlers) UpdateHero(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "UpdateHero")
	defer span.End()

	slug, err := pageSlug(c)
	if err != nil {
		respondError(c, span, h.logger, "invalid slug", err)
		return
	}

	var req models.HeroAssetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, span, h.logger, "invalid hero request", models.NewValidationError("body", "invalid hero request body"))
		return
	}
	if req.Image == nil && req.Video == nil {
		respondError(c, span, h.logger, "invalid hero request", models.NewValidationError("body", "image or video required"))
		return
	}

	if req.Image != nil {
		if err := h.pages.UploadHeroImage(ctx, slug, *req.Image); err != nil {
			respondError(c, span, h.logger, "failed to save hero image", err)
			return
		}
	}
	if req.Video != nil {
		if err := h.pages.UploadHeroVideo(ctx, slug, *req.Video); err != nil {
			respondError(c, span, h.logger, "failed to save hero video", err)
			return
		}
	}
	metadata := map[string]string{}
	if req.Image != nil {
		metadata["image"] = *req.Image
	}
	if req.Video != nil {
		metadata["video"] = *req.Video
	}
	h.record(c, utils.AuditActionUpdate, utils.AuditResourceHero, slug, metadata)
	c.Status(http.StatusNoContent)
}

// UploadAsset godoc
// @Summary Upload an asset
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param bucket path string true "Bucket" Enums(images, icons, videos, syllabus, recruiters)
// @Param file formData file true "File"
// @Success 201 {object} models.UploadResponse
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /admin/uploads/{bucket} [post]
func (h *AdminHandlers) UploadAsset(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "UploadAsset")
	defer span.End()

	bucket := c.Param("bucket")
	if !models.IsValidBucket(bucket) {
		respondError(c, span, h.logger, "invalid bucket", fmt.Errorf("%w: %q", models.ErrInvalidBucket, bucket))
		return
	}
	span.SetAttributes(attribute.String("storage.bucket", bucket))

	file, err := h.formFile(c)
	if err != nil {
		h.respondUploadError(c, span, err)
		return
	}

	url, err := h.storage.Upload(ctx, file, bucket)
	if err != nil {
		respondError(c, span, h.logger, "failed to upload asset", err)
		return
	}
	h.record(c, utils.AuditActionUpload, utils.AuditResourceAsset, "", map[string]string{
		"bucket": bucket,
		"url":    url,
	})
	c.JSON(http.StatusCreated, models.UploadResponse{URL: url, FileName: file.BaseName(), Bucket: bucket})
}

// InvalidateCache godoc
// @Summary Drop every cached page
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CacheInvalidateResponse
// @Router /admin/cache/invalidate [post]
func (h *AdminHandlers) InvalidateCache(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "InvalidateCache")
	defer span.End()

	n := h.pages.InvalidateAll(ctx)
	utils.AddSpanAttribute(span, "cache.invalidated", n)
	h.record(c, utils.AuditActionInvalidate, utils.AuditResourceCache, "", map[string]string{"keys": strconv.Itoa(n)})
	h.logger.Info("page cache invalidated", zap.Int("keys", n), zap.String("operator", middleware.Operator(c)))
	c.JSON(http.StatusOK, CacheInvalidateResponse{Invalidated: n})
}

// formFile reads the multipart "file" field into memory, enforcing the size limit
func (h *AdminHandlers) formFile(c *gin.Context) (models.File, error) {
	if h.maxUploadBytes > 0 {
		// multipart framing is allowed a little slack over the file limit
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+64<<10)
	}
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return models.File{}, errFileTooLarge
		}
		return models.File{}, models.NewValidationError("file", "select a file first")
	}
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		return models.File{}, errFileTooLarge
	}
	return readFormFile(header)
}

func readFormFile(header *multipart.FileHeader) (models.File, error) {
	f, err := header.Open()
	if err != nil {
		return models.File{}, models.NewValidationError("file", "failed to read uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return models.File{}, models.NewValidationError("file", "failed to read uploaded file")
	}
	file := models.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}
	if file.Empty() {
		return models.File{}, models.NewValidationError("file", "select a file first")
	}
	return file, nil
}

func (h *AdminHandlers) respondUploadError(c *gin.Context, span trace.Span, err error) {
	if errors.Is(err, errFileTooLarge) {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"upload.max_bytes": h.maxUploadBytes})
		h.logger.Debug("upload rejected", zap.Int64("max_bytes", h.maxUploadBytes))
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error: fmt.Sprintf("%s: limit is %d bytes", errFileTooLarge, h.maxUploadBytes),
		})
		return
	}
	respondError(c, span, h.logger, "invalid upload", err)
}
