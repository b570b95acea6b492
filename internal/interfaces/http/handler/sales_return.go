package handler

import (
	"github.com/bizdesk/erp/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// SalesReturnHandler handles returns against sales invoices
type SalesReturnHandler struct {
	BaseHandler
	returnService *trade.SalesReturnService
}

// NewSalesReturnHandler creates a new SalesReturnHandler
func NewSalesReturnHandler(returnService *trade.SalesReturnService) *SalesReturnHandler {
	return &SalesReturnHandler{returnService: returnService}
}

// List returns a filtered page of sales returns
// GET /sales/returns
func (h *SalesReturnHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q trade.ListSalesReturnsQuery
	if !h.bindQuery(c, &q) {
		return
	}

	result, err := h.returnService.List(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// Get returns a sales return with its items
// GET /sales/returns/:id
func (h *SalesReturnHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	ret, err := h.returnService.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}

// Create records a return, restocks products and credits the account
// POST /sales/returns
func (h *SalesReturnHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	var req trade.CreateSalesReturnRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ret, err := h.returnService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ret)
}
