package persistence

import (
	"github.com/bizdesk/erp/internal/domain/catalog"
	"github.com/bizdesk/erp/internal/domain/finance"
	"github.com/bizdesk/erp/internal/domain/hr"
	"github.com/bizdesk/erp/internal/domain/identity"
	"github.com/bizdesk/erp/internal/domain/integration"
	"github.com/bizdesk/erp/internal/domain/notification"
	"github.com/bizdesk/erp/internal/domain/partner"
	"github.com/bizdesk/erp/internal/domain/servicedesk"
	"github.com/bizdesk/erp/internal/domain/task"
	"github.com/bizdesk/erp/internal/domain/tenancy"
	"github.com/bizdesk/erp/internal/domain/trade"
)

// Models returns every persisted entity in dependency order. The SQL
// migrations are the production schema; this list drives AutoMigrate in
// tests and local sqlite runs.
func Models() []any {
	return []any{
		&tenancy.SubscriptionPackage{},
		&tenancy.Tenant{},
		&tenancy.SupportTicket{},
		&tenancy.SubscriptionPayment{},
		&identity.User{},
		&partner.Account{},
		&catalog.Product{},
		&catalog.StockMovement{},
		&trade.Invoice{},
		&trade.InvoiceItem{},
		&trade.Offer{},
		&trade.OfferItem{},
		&trade.SalesReturn{},
		&trade.SalesReturnItem{},
		&finance.CashRegister{},
		&finance.Transaction{},
		&hr.Employee{},
		&hr.Payroll{},
		&task.Task{},
		&task.Subtask{},
		&servicedesk.Ticket{},
		&servicedesk.Part{},
		&servicedesk.HistoryEntry{},
		&notification.Notification{},
		&integration.WebhookConfig{},
		&integration.Delivery{},
	}
}
