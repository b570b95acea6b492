package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesReturn records goods sent back against a sales invoice. Returns are
// immutable once created.
type SalesReturn struct {
	shared.TenantEntity
	ReturnNumber string            `gorm:"type:varchar(50);not null;index" json:"return_number"`
	InvoiceID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"invoice_id"`
	AccountID    *uuid.UUID        `gorm:"type:uuid" json:"account_id,omitempty"`
	Reason       string            `gorm:"type:text" json:"reason"`
	Total        decimal.Decimal   `gorm:"type:decimal(18,2);not null" json:"total"`
	ReturnedAt   time.Time         `gorm:"not null" json:"returned_at"`
	Items        []SalesReturnItem `gorm:"foreignKey:ReturnID;references:ID" json:"items"`
}

// TableName returns the table name for GORM
func (SalesReturn) TableName() string {
	return "sales_returns"
}

// SalesReturnItem is a returned quantity of one invoice line
type SalesReturnItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ReturnID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"return_id"`
	InvoiceItemID uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_item_id"`
	ProductID     *uuid.UUID      `gorm:"type:uuid" json:"product_id,omitempty"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	Total         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total"`
}

// TableName returns the table name for GORM
func (SalesReturnItem) TableName() string {
	return "sales_return_items"
}

// ReturnLine requests a quantity back from an invoice line
type ReturnLine struct {
	InvoiceItemID uuid.UUID
	Quantity      decimal.Decimal
}

// NewSalesReturn validates the requested lines against the invoice and the
// quantities already returned per invoice line, and prices each returned
// quantity proportionally to the original line total.
func NewSalesReturn(userID uuid.UUID, invoice *Invoice, reason string, lines []ReturnLine, alreadyReturned map[uuid.UUID]decimal.Decimal) (*SalesReturn, error) {
	if !invoice.IsSales() {
		return nil, shared.NewBusinessRuleError("Only sales invoices can be returned")
	}
	if invoice.Status == InvoiceStatusCancelled {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Cancelled invoices cannot be returned")
	}
	if len(lines) == 0 {
		return nil, shared.NewInvalidInputError("Return must have at least one line")
	}

	now := time.Now()
	r := &SalesReturn{
		TenantEntity: shared.NewTenantEntityWithCreator(invoice.TenantID, userID),
		ReturnNumber: GenerateNumber("RET", now),
		InvoiceID:    invoice.ID,
		AccountID:    invoice.AccountID,
		Reason:       strings.TrimSpace(reason),
		Total:        decimal.Zero,
		ReturnedAt:   now,
		Items:        make([]SalesReturnItem, 0, len(lines)),
	}
	requested := make(map[uuid.UUID]decimal.Decimal)
	for i, l := range lines {
		item := invoice.FindItem(l.InvoiceItemID)
		if item == nil {
			return nil, shared.NewInvalidInputError(fmt.Sprintf("Line %d: invoice line not found", i+1))
		}
		if !l.Quantity.IsPositive() {
			return nil, shared.NewInvalidInputError(fmt.Sprintf("Line %d: quantity must be positive", i+1))
		}
		requested[item.ID] = requested[item.ID].Add(l.Quantity)
		remaining := item.Quantity.Sub(alreadyReturned[item.ID])
		if requested[item.ID].GreaterThan(remaining) {
			return nil, shared.NewBusinessRuleError(fmt.Sprintf("Line %d: return quantity exceeds remaining quantity %s", i+1, remaining.String()))
		}
		total := item.Total.Mul(l.Quantity).Div(item.Quantity).Round(2)
		r.Items = append(r.Items, SalesReturnItem{
			ID:            uuid.New(),
			ReturnID:      r.ID,
			InvoiceItemID: item.ID,
			ProductID:     item.ProductID,
			Quantity:      l.Quantity,
			Total:         total,
		})
		r.Total = r.Total.Add(total)
	}
	return r, nil
}
