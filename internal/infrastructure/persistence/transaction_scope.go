package persistence

import (
	"context"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/domain/catalog"
	"github.com/bizdesk/erp/internal/domain/finance"
	"github.com/bizdesk/erp/internal/domain/hr"
	"github.com/bizdesk/erp/internal/domain/identity"
	"github.com/bizdesk/erp/internal/domain/partner"
	"github.com/bizdesk/erp/internal/domain/servicedesk"
	"github.com/bizdesk/erp/internal/domain/task"
	"github.com/bizdesk/erp/internal/domain/tenancy"
	"github.com/bizdesk/erp/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements common.TransactionScope using GORM
// transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos common.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txRepositories{tx: tx})
	})
}

// txRepositories hands out repositories bound to one transaction
type txRepositories struct {
	tx *gorm.DB
}

func (r *txRepositories) Accounts() partner.AccountRepository {
	return NewGormAccountRepository(r.tx)
}

func (r *txRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *txRepositories) StockMovements() catalog.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r *txRepositories) Invoices() trade.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *txRepositories) Offers() trade.OfferRepository {
	return NewGormOfferRepository(r.tx)
}

func (r *txRepositories) SalesReturns() trade.SalesReturnRepository {
	return NewGormSalesReturnRepository(r.tx)
}

func (r *txRepositories) CashRegisters() finance.CashRegisterRepository {
	return NewGormCashRegisterRepository(r.tx)
}

func (r *txRepositories) Transactions() finance.TransactionRepository {
	return NewGormTransactionRepository(r.tx)
}

func (r *txRepositories) Payrolls() hr.PayrollRepository {
	return NewGormPayrollRepository(r.tx)
}

func (r *txRepositories) Tasks() task.Repository {
	return NewGormTaskRepository(r.tx)
}

func (r *txRepositories) ServiceTickets() servicedesk.TicketRepository {
	return NewGormServiceTicketRepository(r.tx)
}

func (r *txRepositories) Tenants() tenancy.TenantRepository {
	return NewGormTenantRepository(r.tx)
}

func (r *txRepositories) Payments() tenancy.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

func (r *txRepositories) Users() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

var (
	_ common.TransactionScope = (*GormTransactionScope)(nil)
	_ common.Repositories     = (*txRepositories)(nil)
)
