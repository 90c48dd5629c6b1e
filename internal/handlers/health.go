package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/viet-college/app-dept-pages/internal/config"
	"github.com/viet-college/app-dept-pages/internal/observability"
	"github.com/viet-college/app-dept-pages/internal/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// HealthResponse reports the state of the service and its backends
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

var errNotConnected = errors.New("not connected")

func pingMongo(ctx context.Context) error {
	if config.MongoDB == nil {
		return errNotConnected
	}
	return config.MongoDB.Client().Ping(ctx, nil)
}

func pingRedis(ctx context.Context) error {
	if config.Redis == nil {
		return errNotConnected
	}
	return config.Redis.Ping(ctx).Err()
}

// HealthCheck godoc
// @Summary Health check
// @Description Pings MongoDB and Redis
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "HealthCheck")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	health := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Services:  make(map[string]string),
	}

	checks := []struct {
		name string
		ping func(context.Context) error
	}{
		{"mongodb", pingMongo},
		{"redis", pingRedis},
	}
	for _, check := range checks {
		_, checkSpan := utils.TraceExternalService(ctx, check.name, "ping")
		if err := check.ping(ctx); err != nil {
			utils.RecordErrorInSpan(checkSpan, err, map[string]interface{}{
				"service.name": check.name,
			})
			observability.Logger().Warn("health check failed", zap.String("service", check.name), zap.Error(err))
			health.Status = "unhealthy"
			health.Services[check.name] = "unhealthy"
		} else {
			health.Services[check.name] = "healthy"
		}
		checkSpan.End()
	}

	span.SetAttributes(attribute.String("health.status", health.Status))

	if health.Status == "healthy" {
		c.JSON(http.StatusOK, health)
		return
	}
	c.JSON(http.StatusServiceUnavailable, health)
}
