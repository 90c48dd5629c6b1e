package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/viet-college/app-dept-pages/internal/logging"
	"github.com/viet-college/app-dept-pages/internal/services"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// AssetHandlers serves stored assets back to browsers
type AssetHandlers struct {
	logger  *logging.SafeLogger
	storage services.AssetStorage
}

// NewAssetHandlers creates the asset handlers
func NewAssetHandlers(logger *logging.SafeLogger, storage services.AssetStorage) *AssetHandlers {
	return &AssetHandlers{logger: logger, storage: storage}
}

// GetAsset godoc
// @Summary Download a stored asset
// @Tags assets
// @Produce octet-stream
// @Param bucket path string true "Bucket"
// @Param id path string true "Asset id"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /assets/{bucket}/{id} [get]
func (h *AssetHandlers) GetAsset(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "GetAsset")
	defer span.End()

	bucket, id := c.Param("bucket"), c.Param("id")
	span.SetAttributes(attribute.String("storage.bucket", bucket), attribute.String("asset.id", id))

	asset, err := h.storage.Open(ctx, bucket, id)
	if err != nil {
		respondError(c, span, h.logger, "failed to open asset", err)
		return
	}
	defer func() {
		if err := asset.Body.Close(); err != nil {
			h.logger.Warn("failed to close asset", zap.String("bucket", bucket), zap.String("id", id), zap.Error(err))
		}
	}()

	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, asset.Size, asset.ContentType, asset.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", asset.Name),
	})
}
