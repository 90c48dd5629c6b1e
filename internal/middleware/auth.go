package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/viet-college/app-dept-pages/internal/config"
	"github.com/viet-college/app-dept-pages/internal/models"
	"github.com/viet-college/app-dept-pages/internal/observability"
	"go.uber.org/zap"
)

// ClaimsKey is the gin context key holding *models.JWTClaims
const ClaimsKey = "claims"

// AuthMiddleware extracts the JWT claims from the request
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		// The gateway has already verified the signature; only the claims are read here
		claims, err := extractClaims(parts[1])
		if err != nil {
			observability.Logger().Error("failed to extract claims from token", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

func extractClaims(token string) (*models.JWTClaims, error) {
	raw := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, raw); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}

	// round-trip through JSON so issuer-specific claims land in the typed struct
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to encode claims: %w", err)
	}
	var claims models.JWTClaims
	if err := json.Unmarshal(data, &claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}

	return &claims, nil
}

// RequireAdmin lets through only callers holding the admin role
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, err := IsAdmin(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Claims not found"})
			c.Abort()
			return
		}
		if !isAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin privileges required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Claims returns the claims stored by AuthMiddleware
func Claims(c *gin.Context) (*models.JWTClaims, error) {
	claims, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, fmt.Errorf("claims not found")
	}
	jwtClaims, ok := claims.(*models.JWTClaims)
	if !ok || jwtClaims == nil {
		return nil, fmt.Errorf("invalid claims type")
	}
	return jwtClaims, nil
}

// IsAdmin reports whether the caller holds the configured admin role
func IsAdmin(c *gin.Context) (bool, error) {
	claims, err := Claims(c)
	if err != nil {
		return false, err
	}
	if config.AppConfig == nil || config.AppConfig.AdminGroup == "" {
		return false, nil
	}
	return claims.HasRole(config.AppConfig.AdminGroup), nil
}

// Operator names the caller for logs
func Operator(c *gin.Context) string {
	claims, err := Claims(c)
	if err != nil {
		return ""
	}
	if claims.PreferredUsername != "" {
		return claims.PreferredUsername
	}
	return claims.SUB
}
