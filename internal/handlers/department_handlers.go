package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/viet-college/app-dept-pages/internal/models"
	"github.com/viet-college/app-dept-pages/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,63}$`)

// pageSlug reads and normalizes the :slug path parameter
func pageSlug(c *gin.Context) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))
	if !slugPattern.MatchString(slug) {
		return "", models.NewValidationError("slug", "invalid department slug")
	}
	return slug, nil
}

// ListDepartments godoc
// @Summary List departments
// @Description Returns the department catalog, CSE family first
// @Tags departments
// @Produce json
// @Success 200 {object} models.DepartmentListResponse
// @Router /departments [get]
func ListDepartments(c *gin.Context) {
	_, span := otel.Tracer("").Start(c.Request.Context(), "ListDepartments")
	defer span.End()

	span.SetAttributes(attribute.Int("departments.count", len(models.Catalog)))
	c.JSON(http.StatusOK, models.DepartmentListResponse{
		Departments: models.Catalog,
		TotalCount:  len(models.Catalog),
	})
}

// GetDepartment godoc
// @Summary Get a department
// @Tags departments
// @Produce json
// @Param slug path string true "Department slug"
// @Success 200 {object} models.Department
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /departments/{slug} [get]
func GetDepartment(c *gin.Context) {
	_, span := otel.Tracer("").Start(c.Request.Context(), "GetDepartment")
	defer span.End()

	logger := observability.Logger()
	slug, err := pageSlug(c)
	if err != nil {
		respondError(c, span, logger, "invalid slug", err)
		return
	}
	dept, ok := models.LookupDepartment(slug)
	if !ok {
		respondError(c, span, logger, "unknown department", models.ErrUnknownDepartment)
		return
	}
	c.JSON(http.StatusOK, dept)
}
