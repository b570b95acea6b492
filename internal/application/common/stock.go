package common

import (
	"context"
	"errors"

	"github.com/bizdesk/erp/internal/domain/catalog"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockPosting describes one stock change caused by a document line
type StockPosting struct {
	TenantID      uuid.UUID
	UserID        uuid.UUID
	ProductID     uuid.UUID
	Type          catalog.MovementType
	Quantity      decimal.Decimal
	ReferenceType string
	ReferenceID   uuid.UUID
	Note          string
}

// PostStock verifies the product belongs to the tenant, applies the signed
// quantity to its stock and appends the matching movement. It must run
// inside a transaction scope and returns the product as stored afterwards.
func PostStock(ctx context.Context, repos Repositories, p StockPosting) (*catalog.Product, error) {
	product, err := repos.Products().FindByIDForTenant(ctx, p.TenantID, p.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Product " + p.ProductID.String())
		}
		return nil, err
	}
	delta := p.Type.SignedDelta(p.Quantity)
	if err := repos.Products().AdjustStock(ctx, product.ID, delta); err != nil {
		return nil, err
	}
	product.Stock = product.Stock.Add(delta)

	movement, err := catalog.NewStockMovement(p.TenantID, product.ID, p.Type, p.Quantity)
	if err != nil {
		return nil, err
	}
	movement.WithReference(p.ReferenceType, p.ReferenceID)
	movement.Note = p.Note
	movement.CreatedBy = &p.UserID
	if err := repos.StockMovements().Create(ctx, movement); err != nil {
		return nil, err
	}
	return product, nil
}

// PostBalance verifies the account belongs to the tenant and adds delta to
// its balance inside the current transaction scope
func PostBalance(ctx context.Context, repos Repositories, tenantID, accountID uuid.UUID, delta decimal.Decimal) error {
	account, err := repos.Accounts().FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError("Account " + accountID.String())
		}
		return err
	}
	return repos.Accounts().AdjustBalance(ctx, account.ID, delta)
}
