package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// RequestStartKey is the gin context key holding the request start time
const RequestStartKey = "request_start_time"

// RequestTiming opens the root span of a request
func RequestTiming() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Set(RequestStartKey, start)

		ctx, span := otel.Tracer("http").Start(c.Request.Context(), "http.request")
		defer span.End()
		span.SetAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.url", c.Request.URL.String()),
			attribute.String("http.route", c.FullPath()),
			attribute.String("http.user_agent", c.Request.UserAgent()),
			attribute.String("http.client_ip", c.ClientIP()),
		)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		span.SetAttributes(
			attribute.Int("http.status_code", status),
			attribute.Int64("http.duration_ms", latency.Milliseconds()),
		)
		if status >= 500 {
			span.SetStatus(codes.Error, "server error")
		}
		if status >= 400 {
			span.SetAttributes(attribute.Bool("http.error", true))
		}
	}
}
