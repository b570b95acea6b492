package middleware

import (
	"net/http"
	"strings"

	"github.com/bizdesk/erp/internal/domain/identity"
	"github.com/bizdesk/erp/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tenant context keys
const (
	TenantIDKey     = "tenant_id"
	tenantUUIDKey   = "tenant_uuid"
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantMiddlewareConfig holds configuration for tenant middleware
type TenantMiddlewareConfig struct {
	// SkipPaths are paths that don't require tenant context
	SkipPaths []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// TenantMiddleware resolves the tenant of the request once. The JWT claim
// wins; the X-Tenant-ID header is honored only for super-admins acting on
// behalf of a tenant. A request whose tenant cannot be resolved is rejected
// with 401 rather than served an empty result.
func TenantMiddleware(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		raw := GetJWTTenantID(c)
		source := "jwt"
		if header := c.GetHeader(TenantHeaderKey); header != "" && GetJWTRole(c) == string(identity.RoleSuperAdmin) {
			raw = header
			source = "header"
		}
		if raw == "" {
			respondUnauthorized(c, "Tenant identification required")
			return
		}

		tenantID, err := uuid.Parse(raw)
		if err != nil || tenantID == uuid.Nil {
			respondUnauthorized(c, "Invalid tenant ID format")
			return
		}

		c.Set(TenantIDKey, tenantID.String())
		c.Set(tenantUUIDKey, tenantID)

		if cfg.Logger != nil {
			cfg.Logger.Debug("Tenant resolved",
				zap.String("tenant_id", tenantID.String()),
				zap.String("source", source),
			)
		}
		c.Next()
	}
}

// GetTenantID returns the tenant resolved by TenantMiddleware
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(tenantUUIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, c.GetString(RequestIDKey)))
}
