package persistence

import (
	"context"

	"github.com/bizdesk/erp/internal/domain/finance"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var cashRegisterListSpec = listSpec{
	sortFields:   fields("name", "balance", "currency"),
	defaultSort:  "name",
	filterFields: fields("currency", "is_active"),
	searchFields: []string{"name", "description"},
}

// GormCashRegisterRepository implements finance.CashRegisterRepository
type GormCashRegisterRepository struct {
	db *gorm.DB
}

// NewGormCashRegisterRepository creates a new GormCashRegisterRepository
func NewGormCashRegisterRepository(db *gorm.DB) *GormCashRegisterRepository {
	return &GormCashRegisterRepository{db: db}
}

// FindByIDForTenant finds a register by ID within a tenant
func (r *GormCashRegisterRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.CashRegister, error) {
	return findForTenant[finance.CashRegister](ctx, r.db, tenantID, id)
}

// FindAllForTenant lists the registers of a tenant
func (r *GormCashRegisterRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.CashRegister, int64, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	return list[finance.CashRegister](q, filter, cashRegisterListSpec)
}

// Create inserts a register
func (r *GormCashRegisterRepository) Create(ctx context.Context, register *finance.CashRegister) error {
	return r.db.WithContext(ctx).Create(register).Error
}

// Save updates descriptive fields; the balance column is left untouched
func (r *GormCashRegisterRepository) Save(ctx context.Context, register *finance.CashRegister) error {
	return r.db.WithContext(ctx).Omit(clause.Associations, "balance").Save(register).Error
}

// Delete removes a register
func (r *GormCashRegisterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[finance.CashRegister](ctx, r.db, id)
}

// AdjustBalance adds delta to the stored balance in a single UPDATE
func (r *GormCashRegisterRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	return adjustColumn(ctx, r.db, &finance.CashRegister{}, id, "balance", delta)
}

var transactionListSpec = listSpec{
	sortFields:   fields("transaction_date", "amount", "type", "category"),
	defaultSort:  "transaction_date",
	filterFields: fields("type", "cash_register_id", "account_id", "category"),
	searchFields: []string{"description", "category"},
	dateField:    "transaction_date",
}

// GormTransactionRepository implements finance.TransactionRepository
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByIDForTenant finds a transaction by ID within a tenant
func (r *GormTransactionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Transaction, error) {
	return findForTenant[finance.Transaction](ctx, r.db, tenantID, id)
}

// FindAllForTenant lists the transactions of a tenant
func (r *GormTransactionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Transaction, int64, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	return list[finance.Transaction](q, filter, transactionListSpec)
}

// CountByRegister counts postings against a register
func (r *GormTransactionRepository) CountByRegister(ctx context.Context, tenantID, registerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&finance.Transaction{}).
		Where("tenant_id = ? AND cash_register_id = ?", tenantID, registerID).
		Count(&count).Error
	return count, err
}

// Create inserts a transaction
func (r *GormTransactionRepository) Create(ctx context.Context, tx *finance.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// Delete removes a transaction
func (r *GormTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[finance.Transaction](ctx, r.db, id)
}

var (
	_ finance.CashRegisterRepository = (*GormCashRegisterRepository)(nil)
	_ finance.TransactionRepository  = (*GormTransactionRepository)(nil)
)
