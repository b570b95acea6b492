package handler

import (
	"github.com/bizdesk/erp/internal/application/servicedesk"
	"github.com/gin-gonic/gin"
)

// ServiceTicketHandler handles repair and service tickets
type ServiceTicketHandler struct {
	BaseHandler
	ticketService *servicedesk.TicketService
}

// NewServiceTicketHandler creates a new ServiceTicketHandler
func NewServiceTicketHandler(ticketService *servicedesk.TicketService) *ServiceTicketHandler {
	return &ServiceTicketHandler{ticketService: ticketService}
}

// List returns a filtered page of tickets
// GET /service-tickets
func (h *ServiceTicketHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q servicedesk.ListTicketsQuery
	if !h.bindQuery(c, &q) {
		return
	}

	result, err := h.ticketService.List(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// Get returns a ticket with parts and history
// GET /service-tickets/:id
func (h *ServiceTicketHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	ticket, err := h.ticketService.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ticket)
}

// Create opens a ticket and consumes stock for its parts
// POST /service-tickets
func (h *ServiceTicketHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	var req servicedesk.CreateTicketRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ticket, err := h.ticketService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ticket)
}

// Update changes ticket header fields
// PUT /service-tickets/:id
func (h *ServiceTicketHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req servicedesk.UpdateTicketRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ticket, err := h.ticketService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ticket)
}

// ChangeStatus moves the ticket and records the transition in its history
// PATCH /service-tickets/:id/status
func (h *ServiceTicketHandler) ChangeStatus(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req servicedesk.ChangeStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ticket, err := h.ticketService.ChangeStatus(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ticket)
}

// AddNote appends a note to the ticket history
// POST /service-tickets/:id/notes
func (h *ServiceTicketHandler) AddNote(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req servicedesk.AddNoteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	entry, err := h.ticketService.AddNote(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// Delete removes a ticket
// DELETE /service-tickets/:id
func (h *ServiceTicketHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.ticketService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
