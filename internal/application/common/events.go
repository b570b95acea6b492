package common

import (
	"context"

	"github.com/bizdesk/erp/internal/domain/notification"
	"github.com/google/uuid"
)

// Webhook event names
const (
	EventInvoiceCreated     = "invoice.created"
	EventInvoiceUpdated     = "invoice.updated"
	EventInvoiceDeleted     = "invoice.deleted"
	EventOfferCreated       = "offer.created"
	EventOfferUpdated       = "offer.updated"
	EventOfferDeleted       = "offer.deleted"
	EventOfferConverted     = "offer.converted"
	EventSalesReturnCreated = "sales_return.created"
	EventTransactionCreated = "transaction.created"
	EventTransactionDeleted = "transaction.deleted"
	EventPayrollGenerated   = "payroll.generated"
	EventAccountCreated     = "account.created"
	EventProductCreated     = "product.created"
	EventStockAdjusted      = "stock.adjusted"
	EventTicketCreated      = "service_ticket.created"
	EventTicketStatus       = "service_ticket.status_changed"
	EventTaskCreated        = "task.created"
	EventTaskUpdated        = "task.updated"
)

// EventPublisher enqueues webhook deliveries for a tenant event. It is
// called after the originating transaction commits and never fails the
// caller.
type EventPublisher interface {
	TriggerEvent(ctx context.Context, tenantID uuid.UUID, event string, payload any)
}

// Notifier creates in-app notifications. A nil userID addresses every user
// of the tenant. Failures are logged, never returned.
type Notifier interface {
	Notify(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, typ notification.Type, title, message string)
}

// NopPublisher discards events
type NopPublisher struct{}

// TriggerEvent does nothing
func (NopPublisher) TriggerEvent(context.Context, uuid.UUID, string, any) {}

// NopNotifier discards notifications
type NopNotifier struct{}

// Notify does nothing
func (NopNotifier) Notify(context.Context, uuid.UUID, *uuid.UUID, notification.Type, string, string) {
}
