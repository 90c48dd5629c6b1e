package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/viet-college/app-dept-pages/internal/logging"
	"github.com/viet-college/app-dept-pages/internal/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// DirectoryHandlers exposes the faculty directory and the gallery
type DirectoryHandlers struct {
	logger    *logging.SafeLogger
	directory DirectoryReader
	gallery   GalleryReader
}

// NewDirectoryHandlers creates the directory handlers
func NewDirectoryHandlers(logger *logging.SafeLogger, directory DirectoryReader, gallery GalleryReader) *DirectoryHandlers {
	return &DirectoryHandlers{
		logger:    logger,
		directory: directory,
		gallery:   gallery,
	}
}

// ListFaculty godoc
// @Summary List all faculty
// @Tags directory
// @Produce json
// @Success 200 {object} models.FacultyListResponse
// @Failure 500 {object} ErrorResponse
// @Router /faculty [get]
func (h *DirectoryHandlers) ListFaculty(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ListFaculty")
	defer span.End()

	members, err := h.directory.GetAllFaculty(ctx)
	if err != nil {
		respondError(c, span, h.logger, "failed to list faculty", err)
		return
	}
	span.SetAttributes(attribute.Int("faculty.count", len(members)))
	c.JSON(http.StatusOK, models.FacultyListResponse{Data: members, TotalCount: len(members)})
}

// ListHODs godoc
// @Summary List all heads of department
// @Tags directory
// @Produce json
// @Success 200 {object} models.FacultyListResponse
// @Failure 500 {object} ErrorResponse
// @Router /hods [get]
func (h *DirectoryHandlers) ListHODs(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ListHODs")
	defer span.End()

	hods, err := h.directory.GetAllHODs(ctx)
	if err != nil {
		respondError(c, span, h.logger, "failed to list hods", err)
		return
	}
	span.SetAttributes(attribute.Int("hods.count", len(hods)))
	c.JSON(http.StatusOK, models.FacultyListResponse{Data: hods, TotalCount: len(hods)})
}

// ListGallery godoc
// @Summary List all gallery images
// @Tags directory
// @Produce json
// @Success 200 {object} models.GalleryListResponse
// @Failure 500 {object} ErrorResponse
// @Router /gallery [get]
func (h *DirectoryHandlers) ListGallery(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ListGallery")
	defer span.End()

	images, err := h.gallery.GetAllImages(ctx)
	if err != nil {
		respondError(c, span, h.logger, "failed to list gallery", err)
		return
	}
	span.SetAttributes(attribute.Int("gallery.count", len(images)))
	c.JSON(http.StatusOK, models.GalleryListResponse{Data: images, TotalCount: len(images)})
}
