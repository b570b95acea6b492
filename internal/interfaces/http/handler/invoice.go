package handler

import (
	"github.com/bizdesk/erp/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles sales and purchase invoices
type InvoiceHandler struct {
	BaseHandler
	invoiceService *trade.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *trade.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// List returns a filtered page of invoices
// GET /invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q trade.ListInvoicesQuery
	if !h.bindQuery(c, &q) {
		return
	}

	result, err := h.invoiceService.List(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// Get returns an invoice with its items
// GET /invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Create records an invoice together with its stock and balance effects
// POST /invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	var req trade.CreateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// Update changes status, due date or notes
// PATCH /invoices/:id
func (h *InvoiceHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req trade.UpdateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Delete removes an invoice. Stock movements stay as the audit trail.
// DELETE /invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
