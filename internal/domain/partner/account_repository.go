package partner

import (
	"context"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepository defines the interface for account persistence
type AccountRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Account, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Account, int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Create(ctx context.Context, account *Account) error
	Save(ctx context.Context, account *Account) error
	Delete(ctx context.Context, id uuid.UUID) error

	// AdjustBalance atomically adds delta to the stored balance
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
}
