package handler

import (
	"github.com/bizdesk/erp/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// AccountHandler handles customer and supplier accounts
type AccountHandler struct {
	BaseHandler
	accountService *partner.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *partner.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// List returns a filtered page of accounts
// GET /accounts
func (h *AccountHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q partner.ListAccountsQuery
	if !h.bindQuery(c, &q) {
		return
	}

	result, err := h.accountService.List(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// Get returns an account with its current balance
// GET /accounts/:id
func (h *AccountHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	account, err := h.accountService.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// Create opens a new account
// POST /accounts
func (h *AccountHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	var req partner.CreateAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	account, err := h.accountService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// Update changes account details
// PUT /accounts/:id
func (h *AccountHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req partner.UpdateAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	account, err := h.accountService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// Delete removes an account
// DELETE /accounts/:id
func (h *AccountHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.accountService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
