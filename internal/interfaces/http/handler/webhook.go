package handler

import (
	"github.com/bizdesk/erp/internal/application/integration"
	"github.com/gin-gonic/gin"
)

// WebhookHandler manages webhook configurations and their deliveries
type WebhookHandler struct {
	BaseHandler
	webhookService *integration.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(webhookService *integration.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// List returns a page of webhook configurations
// GET /webhooks
func (h *WebhookHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q integration.ListWebhooksQuery
	if !h.bindQuery(c, &q) {
		return
	}

	result, err := h.webhookService.List(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// Get returns a webhook configuration
// GET /webhooks/:id
func (h *WebhookHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	cfg, err := h.webhookService.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cfg)
}

// Create registers a webhook endpoint
// POST /webhooks
func (h *WebhookHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	var req integration.CreateWebhookRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cfg, err := h.webhookService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, cfg)
}

// Update changes a webhook configuration
// PUT /webhooks/:id
func (h *WebhookHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req integration.UpdateWebhookRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cfg, err := h.webhookService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cfg)
}

// Delete removes a webhook configuration
// DELETE /webhooks/:id
func (h *WebhookHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.webhookService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListDeliveries returns a filtered page of delivery attempts
// GET /webhooks/deliveries
func (h *WebhookHandler) ListDeliveries(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q integration.ListDeliveriesQuery
	if !h.bindQuery(c, &q) {
		return
	}

	result, err := h.webhookService.ListDeliveries(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// RetryDelivery puts a failed or dead delivery back in the queue
// POST /webhooks/deliveries/:id/retry
func (h *WebhookHandler) RetryDelivery(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	delivery, err := h.webhookService.RetryDelivery(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, delivery)
}
