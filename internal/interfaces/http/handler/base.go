package handler

import (
	"errors"
	"net/http"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/bizdesk/erp/internal/infrastructure/logger"
	"github.com/bizdesk/erp/internal/interfaces/http/dto"
	"github.com/bizdesk/erp/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	return c.GetString(middleware.RequestIDKey)
}

// getTenantID returns the tenant resolved by the tenant middleware
func getTenantID(c *gin.Context) (uuid.UUID, bool) {
	return middleware.GetTenantID(c)
}

// getUserID extracts the user ID from the JWT claims
func getUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(middleware.GetJWTUserID(c))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// scope returns the tenant and the acting user, responding 401 when either
// is missing
func (h *BaseHandler) scope(c *gin.Context) (tenantID, userID uuid.UUID, ok bool) {
	tenantID, ok = getTenantID(c)
	if !ok {
		h.Unauthorized(c, "Tenant context is missing")
		return uuid.Nil, uuid.Nil, false
	}
	userID, ok = getUserID(c)
	if !ok {
		h.Unauthorized(c, "User context is missing")
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, userID, true
}

// tenant returns the tenant, responding 401 when it is missing
func (h *BaseHandler) tenant(c *gin.Context) (uuid.UUID, bool) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "Tenant context is missing")
	}
	return tenantID, ok
}

// pathID parses the :id path parameter
func (h *BaseHandler) pathID(c *gin.Context) (uuid.UUID, bool) {
	return h.pathUUID(c, "id")
}

func (h *BaseHandler) pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds and validates the body, responding 400 on failure
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// bindQuery binds and validates the query string, responding 400 on failure
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func (h *BaseHandler) Forbidden(c *gin.Context, message string) {
	h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError converts domain errors to HTTP responses. Anything else is
// logged and reported as an internal error.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code, status := dto.FromDomainCode(domainErr.Code)
		h.Error(c, status, code, domainErr.Message)
		return
	}

	_ = c.Error(err)
	logger.L(c.Request.Context()).Error("Request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	h.InternalError(c, "An unexpected error occurred")
}

// page writes a list result with pagination meta
func page[T any](c *gin.Context, p common.Page[T]) {
	c.JSON(http.StatusOK, dto.NewPageResponse(p))
}
