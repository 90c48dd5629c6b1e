package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/viet-college/app-dept-pages/internal/logging"
	"github.com/viet-college/app-dept-pages/internal/models"
	"github.com/viet-college/app-dept-pages/internal/utils"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case models.IsBadRequest(err):
		return http.StatusBadRequest
	case models.IsNotFound(err):
		return http.StatusNotFound
	case models.IsUploadError(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// respondError records err on the span, logs it and writes the error body
func respondError(c *gin.Context, span trace.Span, logger *logging.SafeLogger, msg string, err error) {
	status := statusFor(err)
	if span != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{
			"http.status_code": status,
		})
	}
	if status >= http.StatusInternalServerError {
		logger.Error(msg, zap.Error(err), zap.Int("status", status))
	} else {
		logger.Debug(msg, zap.Error(err), zap.Int("status", status))
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
