package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/viet-college/app-dept-pages/internal/logging"
	"github.com/viet-college/app-dept-pages/internal/models"
	"github.com/viet-college/app-dept-pages/internal/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// PageHandlers serves department pages to the public site and the editor
type PageHandlers struct {
	logger   *logging.SafeLogger
	pages    PageService
	renderer PageRenderer
}

// NewPageHandlers creates the page handlers
func NewPageHandlers(logger *logging.SafeLogger, pages PageService, renderer PageRenderer) *PageHandlers {
	return &PageHandlers{
		logger:   logger,
		pages:    pages,
		renderer: renderer,
	}
}

// GetPage godoc
// @Summary Get a department page
// @Description Returns the migrated document of the page; a page never saved returns the default document
// @Tags pages
// @Produce json
// @Param slug path string true "Department slug"
// @Success 200 {object} models.Document
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /pages/{slug} [get]
func (h *PageHandlers) GetPage(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "GetPage")
	defer span.End()

	slug, err := pageSlug(c)
	if err != nil {
		respondError(c, span, h.logger, "invalid slug", err)
		return
	}
	span.SetAttributes(attribute.String("page.slug", slug))

	doc, err := h.pages.GetDocument(ctx, slug)
	if err != nil && !errors.Is(err, models.ErrPageNotFound) {
		respondError(c, span, h.logger, "failed to load page", err)
		return
	}
	utils.AddSpanAttribute(span, "page.found", err == nil)
	c.JSON(http.StatusOK, doc)
}

// GetRawPage godoc
// @Summary Get the stored page record
// @Description Returns the page exactly as stored, or 404 when it was never saved
// @Tags pages
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Department slug"
// @Success 200 {object} models.DepartmentPage
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /pages/{slug}/raw [get]
func (h *PageHandlers) GetRawPage(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "GetRawPage")
	defer span.End()

	slug, err := pageSlug(c)
	if err != nil {
		respondError(c, span, h.logger, "invalid slug", err)
		return
	}

	raw, err := h.pages.GetBySlug(ctx, slug)
	if err != nil {
		respondError(c, span, h.logger, "failed to load raw page", err)
		return
	}
	c.JSON(http.StatusOK, raw)
}

// GetPageView godoc
// @Summary Render a department page
// @Description Returns every section with the tier it rendered from: structured, legacy, demo or placeholder
// @Tags pages
// @Produce json
// @Param slug path string true "Department slug"
// @Success 200 {object} services.PageView
// @Failure 400 {object} ErrorResponse
// @Router /pages/{slug}/view [get]
func (h *PageHandlers) GetPageView(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "GetPageView")
	defer span.End()

	slug, err := pageSlug(c)
	if err != nil {
		respondError(c, span, h.logger, "invalid slug", err)
		return
	}
	c.JSON(http.StatusOK, h.renderer.Render(ctx, slug))
}

// GetPageHTML godoc
// @Summary Render a department page as HTML
// @Tags pages
// @Produce html
// @Param slug path string true "Department slug"
// @Success 200 {string} string "HTML page"
// @Failure 400 {object} ErrorResponse
// @Router /pages/{slug}/html [get]
func (h *PageHandlers) GetPageHTML(c *gin.Context) {
	start := time.Now()
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "GetPageHTML")
	defer span.End()

	slug, err := pageSlug(c)
	if err != nil {
		respondError(c, span, h.logger, "invalid slug", err)
		return
	}

	view := h.renderer.Render(ctx, slug)

	_, tmplSpan := utils.TraceResponseSerialization(ctx, "html")
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, newPageTemplateData(view)); err != nil {
		tmplSpan.End()
		respondError(c, span, h.logger, "failed to render page", err)
		return
	}
	tmplSpan.End()

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
	h.logger.Debug("page rendered",
		zap.String("slug", slug),
		zap.Int("bytes", buf.Len()),
		zap.Duration("duration", time.Since(start)))
}
