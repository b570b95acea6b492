package finance

import (
	"context"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashRegisterRepository defines the interface for cash register persistence
type CashRegisterRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CashRegister, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CashRegister, int64, error)
	Create(ctx context.Context, register *CashRegister) error
	Save(ctx context.Context, register *CashRegister) error
	Delete(ctx context.Context, id uuid.UUID) error

	// AdjustBalance atomically adds delta to the stored balance
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
}

// TransactionRepository defines the interface for transaction persistence
type TransactionRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Transaction, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Transaction, int64, error)
	CountByRegister(ctx context.Context, tenantID, registerID uuid.UUID) (int64, error)
	Create(ctx context.Context, tx *Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
}
