package catalog

import (
	"time"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType encodes the direction and cause of a stock change
type MovementType string

const (
	MovementSale          MovementType = "sale"
	MovementPurchase      MovementType = "purchase"
	MovementSalesReturn   MovementType = "sales_return"
	MovementService       MovementType = "service"
	MovementAdjustmentIn  MovementType = "adjustment_in"
	MovementAdjustmentOut MovementType = "adjustment_out"
)

// IsValid checks if the type is a known value
func (t MovementType) IsValid() bool {
	switch t {
	case MovementSale, MovementPurchase, MovementSalesReturn, MovementService,
		MovementAdjustmentIn, MovementAdjustmentOut:
		return true
	}
	return false
}

// IsInbound reports whether the movement increases stock
func (t MovementType) IsInbound() bool {
	return t == MovementPurchase || t == MovementSalesReturn || t == MovementAdjustmentIn
}

// SignedDelta returns the stock delta implied by moving qty in this direction
func (t MovementType) SignedDelta(qty decimal.Decimal) decimal.Decimal {
	if t.IsInbound() {
		return qty.Abs()
	}
	return qty.Abs().Neg()
}

// StockMovement is an append-only audit row for a single stock change.
// Quantity is always positive; direction is encoded by Type.
type StockMovement struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Type          MovementType    `gorm:"type:varchar(20);not null" json:"type"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	ReferenceType string          `gorm:"type:varchar(30)" json:"reference_type,omitempty"`
	ReferenceID   *uuid.UUID      `gorm:"type:uuid;index" json:"reference_id,omitempty"`
	Note          string          `gorm:"type:varchar(500)" json:"note,omitempty"`
	CreatedBy     *uuid.UUID      `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement builds a movement row for a product
func NewStockMovement(tenantID, productID uuid.UUID, movementType MovementType, qty decimal.Decimal) (*StockMovement, error) {
	if !movementType.IsValid() {
		return nil, shared.NewInvalidInputError("Unknown stock movement type: " + string(movementType))
	}
	if qty.IsZero() {
		return nil, shared.NewInvalidInputError("Stock movement quantity cannot be zero")
	}
	return &StockMovement{
		ID:        uuid.New(),
		TenantID:  tenantID,
		ProductID: productID,
		Type:      movementType,
		Quantity:  qty.Abs(),
		CreatedAt: time.Now(),
	}, nil
}

// WithReference links the movement to its originating document
func (m *StockMovement) WithReference(refType string, refID uuid.UUID) *StockMovement {
	m.ReferenceType = refType
	m.ReferenceID = &refID
	return m
}
