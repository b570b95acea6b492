package handler

import (
	"github.com/bizdesk/erp/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// OfferHandler handles price offers and their conversion to invoices
type OfferHandler struct {
	BaseHandler
	offerService *trade.OfferService
}

// NewOfferHandler creates a new OfferHandler
func NewOfferHandler(offerService *trade.OfferService) *OfferHandler {
	return &OfferHandler{offerService: offerService}
}

// List returns a filtered page of offers
// GET /offers
func (h *OfferHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q trade.ListOffersQuery
	if !h.bindQuery(c, &q) {
		return
	}

	result, err := h.offerService.List(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// Get returns an offer with its items
// GET /offers/:id
func (h *OfferHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	offer, err := h.offerService.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, offer)
}

// Create drafts an offer
// POST /offers
func (h *OfferHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	var req trade.CreateOfferRequest
	if !h.bindJSON(c, &req) {
		return
	}

	offer, err := h.offerService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, offer)
}

// Update changes an offer and optionally replaces its items
// PATCH /offers/:id
func (h *OfferHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req trade.UpdateOfferRequest
	if !h.bindJSON(c, &req) {
		return
	}

	offer, err := h.offerService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, offer)
}

// Delete removes an offer
// DELETE /offers/:id
func (h *OfferHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.offerService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Convert turns the offer into a sales invoice
// POST /offers/:id/convert
func (h *OfferHandler) Convert(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	result, err := h.offerService.ConvertToInvoice(c.Request.Context(), tenantID, userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}
