package catalog

import (
	"context"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Create(ctx context.Context, product *Product) error
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	// AdjustStock atomically adds delta to the stored stock
	AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
}

// StockMovementRepository is the append-only stock audit trail
type StockMovementRepository interface {
	Create(ctx context.Context, movement *StockMovement) error
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]StockMovement, int64, error)
	FindByReference(ctx context.Context, tenantID uuid.UUID, refType string, refID uuid.UUID) ([]StockMovement, error)
}
