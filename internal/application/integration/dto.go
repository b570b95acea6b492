package integration

import (
	"github.com/bizdesk/erp/internal/application/common"
)

// ListWebhooksQuery filters the webhook subscription list
type ListWebhooksQuery struct {
	common.ListQuery
	Active *bool `form:"is_active"`
}

// CreateWebhookRequest represents a request to subscribe a URL to events
type CreateWebhookRequest struct {
	Name   string   `json:"name" binding:"max=100"`
	URL    string   `json:"url" binding:"required,url,max=1000"`
	Events []string `json:"events" binding:"omitempty,dive,max=100"`
	Secret string   `json:"secret" binding:"max=200"`
}

// UpdateWebhookRequest represents a partial webhook update
type UpdateWebhookRequest struct {
	Name     *string   `json:"name" binding:"omitempty,max=100"`
	URL      *string   `json:"url" binding:"omitempty,url,max=1000"`
	Events   *[]string `json:"events"`
	Secret   *string   `json:"secret" binding:"omitempty,max=200"`
	IsActive *bool     `json:"is_active"`
}

// ListDeliveriesQuery filters the delivery log
type ListDeliveriesQuery struct {
	common.ListQuery
	Status    string `form:"status" binding:"omitempty,oneof=pending processing delivered failed dead"`
	WebhookID string `form:"webhook_id" binding:"omitempty,uuid"`
	Event     string `form:"event" binding:"omitempty,max=100"`
}
