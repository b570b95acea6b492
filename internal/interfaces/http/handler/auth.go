package handler

import (
	"github.com/bizdesk/erp/internal/application/identity"
	"github.com/bizdesk/erp/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login exchanges credentials for a token pair
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Refresh exchanges a refresh token for a new token pair
// POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identity.RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout revokes the current access token and, when given, its refresh token
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req identity.LogoutRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims, req.RefreshToken); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Logged out successfully"})
}

// Me returns the authenticated user's profile. The home tenant from the
// token is used, not the tenant override header.
// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	tenantID, err := claims.GetTenantUUID()
	if err != nil {
		h.Unauthorized(c, "Invalid tenant in token")
		return
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		h.Unauthorized(c, "Invalid user in token")
		return
	}

	user, err := h.authService.Me(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
