package handler

import (
	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// UserHandler manages the users of the caller's tenant
type UserHandler struct {
	BaseHandler
	userService *identity.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identity.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List returns a page of users
// GET /users
func (h *UserHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q common.ListQuery
	if !h.bindQuery(c, &q) {
		return
	}

	result, err := h.userService.List(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// Get returns a single user
// GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Create adds a user to the tenant
// POST /users
func (h *UserHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req identity.CreateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// Update changes a user
// PUT /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req identity.UpdateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Delete removes a user. Users cannot delete themselves.
// DELETE /users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), tenantID, userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
