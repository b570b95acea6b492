package catalog

import (
	"strings"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a stocked or service item sold and purchased by the tenant
type Product struct {
	shared.TenantEntity
	Code          string          `gorm:"type:varchar(50);not null;index" json:"code"`
	Name          string          `gorm:"type:varchar(200);not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	Unit          string          `gorm:"type:varchar(20);not null;default:'pcs'" json:"unit"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"purchase_price"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"sale_price"`
	TaxRate       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"tax_rate"`
	Stock         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"stock"`
	MinStock      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"min_stock"`
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a product with zero stock
func NewProduct(tenantID uuid.UUID, code, name, unit string) (*Product, error) {
	code = strings.TrimSpace(code)
	if code == "" || len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Product code must be 1-50 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if unit == "" {
		unit = "pcs"
	}
	return &Product{
		TenantEntity:  shared.NewTenantEntity(tenantID),
		Code:          strings.ToUpper(code),
		Name:          strings.TrimSpace(name),
		Unit:          unit,
		PurchasePrice: decimal.Zero,
		SalePrice:     decimal.Zero,
		TaxRate:       decimal.Zero,
		Stock:         decimal.Zero,
		MinStock:      decimal.Zero,
		IsActive:      true,
	}, nil
}

// SetPrices updates purchase and sale prices
func (p *Product) SetPrices(purchase, sale decimal.Decimal) error {
	if purchase.IsNegative() || sale.IsNegative() {
		return shared.NewInvalidInputError("Prices cannot be negative")
	}
	p.PurchasePrice = purchase
	p.SalePrice = sale
	p.Touch()
	return nil
}

// IsBelowMinimum reports whether stock has dropped under the reorder level
func (p *Product) IsBelowMinimum() bool {
	return p.MinStock.IsPositive() && p.Stock.LessThan(p.MinStock)
}
