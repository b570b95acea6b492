package handler

import (
	"github.com/bizdesk/erp/internal/application/notification"
	"github.com/gin-gonic/gin"
)

// NotificationHandler serves the current user's notifications
type NotificationHandler struct {
	BaseHandler
	notificationService *notification.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *notification.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List returns own and broadcast notifications
// GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	var q notification.ListNotificationsQuery
	if !h.bindQuery(c, &q) {
		return
	}

	result, err := h.notificationService.List(c.Request.Context(), tenantID, userID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// MarkRead marks one notification as read
// PATCH /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	n, err := h.notificationService.MarkRead(c.Request.Context(), tenantID, userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}

// MarkAllRead marks every visible notification as read
// POST /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}

	updated, err := h.notificationService.MarkAllRead(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"updated": updated})
}

// Delete removes a notification
// DELETE /notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), tenantID, userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
