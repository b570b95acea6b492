// Package common holds the contracts shared by application services: the
// transaction scope used by multi-entity workflows, the post-commit side
// channels (webhook events and notifications) and list query parsing.
package common

import (
	"context"

	"github.com/bizdesk/erp/internal/domain/catalog"
	"github.com/bizdesk/erp/internal/domain/finance"
	"github.com/bizdesk/erp/internal/domain/hr"
	"github.com/bizdesk/erp/internal/domain/identity"
	"github.com/bizdesk/erp/internal/domain/partner"
	"github.com/bizdesk/erp/internal/domain/servicedesk"
	"github.com/bizdesk/erp/internal/domain/task"
	"github.com/bizdesk/erp/internal/domain/tenancy"
	"github.com/bizdesk/erp/internal/domain/trade"
)

// TransactionScope runs a unit of work atomically.
// If fn returns an error, the transaction is rolled back; otherwise it is
// committed.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories gives access to repositories bound to the current
// transaction. All of them share the same underlying connection.
type Repositories interface {
	Accounts() partner.AccountRepository
	Products() catalog.ProductRepository
	StockMovements() catalog.StockMovementRepository
	Invoices() trade.InvoiceRepository
	Offers() trade.OfferRepository
	SalesReturns() trade.SalesReturnRepository
	CashRegisters() finance.CashRegisterRepository
	Transactions() finance.TransactionRepository
	Payrolls() hr.PayrollRepository
	Tasks() task.Repository
	ServiceTickets() servicedesk.TicketRepository
	Tenants() tenancy.TenantRepository
	Payments() tenancy.PaymentRepository
	Users() identity.UserRepository
}
