package trade

import (
	"context"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByIDForTenant loads the invoice with its items ordered by line number
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, int64, error)
	ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error)

	// Create inserts the header and its items
	Create(ctx context.Context, invoice *Invoice) error

	// Save updates header fields only
	Save(ctx context.Context, invoice *Invoice) error

	// Delete removes the header and its items
	Delete(ctx context.Context, id uuid.UUID) error
}

// OfferRepository defines the interface for offer persistence
type OfferRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Offer, error)

	// FindByIDForTenantForUpdate is FindByIDForTenant holding a row lock
	// until the surrounding transaction ends.
	FindByIDForTenantForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Offer, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Offer, int64, error)
	Create(ctx context.Context, offer *Offer) error

	// Save updates the header and, when replaceItems is set, deletes and
	// recreates the item collection.
	Save(ctx context.Context, offer *Offer, replaceItems bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SalesReturnRepository defines the interface for sales return persistence
type SalesReturnRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SalesReturn, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SalesReturn, int64, error)
	Create(ctx context.Context, ret *SalesReturn) error

	// ReturnedQuantities sums returned quantities per invoice item
	ReturnedQuantities(ctx context.Context, invoiceID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
}
