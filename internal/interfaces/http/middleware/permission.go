package middleware

import (
	"net/http"
	"slices"

	"github.com/bizdesk/erp/internal/domain/identity"
	"github.com/bizdesk/erp/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PermissionConfig holds configuration for the authorization guards
type PermissionConfig struct {
	Logger *zap.Logger
}

// RequireRoles allows the request only when the caller has one of roles
func RequireRoles(roles ...identity.Role) gin.HandlerFunc {
	return RequireRolesWithConfig(PermissionConfig{}, roles...)
}

// RequireRolesWithConfig is RequireRoles with logging of denials
func RequireRolesWithConfig(cfg PermissionConfig, roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handlePermissionDenied(c, cfg, "No authentication claims found")
			return
		}
		if !slices.Contains(roles, identity.Role(claims.Role)) {
			handlePermissionDenied(c, cfg, "Role "+claims.Role+" is not allowed")
			return
		}
		c.Next()
	}
}

// RequireSuperAdmin guards the SaaS console routes
func RequireSuperAdmin() gin.HandlerFunc {
	return RequireRoles(identity.RoleSuperAdmin)
}

// RequireModule allows the request when the caller's module allow-list
// contains module. Admins and super-admins bypass the list.
func RequireModule(module string) gin.HandlerFunc {
	return RequireModuleWithConfig(PermissionConfig{}, module)
}

// RequireModuleWithConfig is RequireModule with logging of denials
func RequireModuleWithConfig(cfg PermissionConfig, module string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handlePermissionDenied(c, cfg, "No authentication claims found")
			return
		}
		role := identity.Role(claims.Role)
		if role != identity.RoleAdmin && role != identity.RoleSuperAdmin && !claims.HasModule(module) {
			handlePermissionDenied(c, cfg, "Module "+module+" is not enabled for user")
			return
		}
		c.Next()
	}
}

func handlePermissionDenied(c *gin.Context, cfg PermissionConfig, reason string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("Permission denied",
			zap.String("reason", reason),
			zap.String("user_id", GetJWTUserID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}
	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeForbidden,
		"Access denied: insufficient permissions",
		c.GetString(RequestIDKey),
	))
}
