package catalog

import (
	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ListProductsQuery filters the product list
type ListProductsQuery struct {
	common.ListQuery
	Active *bool `form:"is_active"`
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Code          string           `json:"code" binding:"required,min=1,max=50"`
	Name          string           `json:"name" binding:"required,min=1,max=200"`
	Description   string           `json:"description" binding:"max=2000"`
	Unit          string           `json:"unit" binding:"omitempty,min=1,max=20"`
	PurchasePrice *decimal.Decimal `json:"purchase_price" binding:"omitempty,decimal_gte0"`
	SalePrice     *decimal.Decimal `json:"sale_price" binding:"omitempty,decimal_gte0"`
	TaxRate       *decimal.Decimal `json:"tax_rate" binding:"omitempty,decimal_gte0"`
	Stock         *decimal.Decimal `json:"stock"`
	MinStock      *decimal.Decimal `json:"min_stock" binding:"omitempty,decimal_gte0"`
}

// UpdateProductRequest represents a request to update a product. Stock is
// changed only through stock movements.
type UpdateProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description   *string          `json:"description" binding:"omitempty,max=2000"`
	Unit          *string          `json:"unit" binding:"omitempty,min=1,max=20"`
	PurchasePrice *decimal.Decimal `json:"purchase_price" binding:"omitempty,decimal_gte0"`
	SalePrice     *decimal.Decimal `json:"sale_price" binding:"omitempty,decimal_gte0"`
	TaxRate       *decimal.Decimal `json:"tax_rate" binding:"omitempty,decimal_gte0"`
	MinStock      *decimal.Decimal `json:"min_stock" binding:"omitempty,decimal_gte0"`
	IsActive      *bool            `json:"is_active"`
}

// StockAdjustmentRequest represents a manual stock correction
type StockAdjustmentRequest struct {
	Type     string          `json:"type" binding:"required,oneof=adjustment_in adjustment_out"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Note     string          `json:"note" binding:"max=500"`
}

// ListMovementsQuery filters the stock movement trail of a product
type ListMovementsQuery struct {
	common.ListQuery
	Type string `form:"type" binding:"omitempty,oneof=sale purchase sales_return service adjustment_in adjustment_out"`
}

// StockAdjustmentResult is the outcome of a manual stock correction
type StockAdjustmentResult struct {
	Movement *catalog.StockMovement `json:"movement"`
	Stock    decimal.Decimal        `json:"stock"`
}
