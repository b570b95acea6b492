package trade

import (
	"time"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineRequest is a document line as submitted by a client. When Total is
// set it is stored verbatim.
type LineRequest struct {
	ProductID    *uuid.UUID       `json:"product_id"`
	Description  string           `json:"description" binding:"max=500"`
	Quantity     decimal.Decimal  `json:"quantity" binding:"decimal_positive"`
	UnitPrice    decimal.Decimal  `json:"unit_price" binding:"decimal_gte0"`
	TaxRate      decimal.Decimal  `json:"tax_rate" binding:"decimal_gte0"`
	DiscountRate decimal.Decimal  `json:"discount_rate" binding:"decimal_gte0"`
	Total        *decimal.Decimal `json:"total"`
}

func toLineInputs(lines []LineRequest) []trade.LineInput {
	out := make([]trade.LineInput, len(lines))
	for i, l := range lines {
		out[i] = trade.LineInput{
			ProductID:    l.ProductID,
			Description:  l.Description,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			TaxRate:      l.TaxRate,
			DiscountRate: l.DiscountRate,
			Total:        l.Total,
		}
	}
	return out
}

// ListInvoicesQuery filters the invoice list
type ListInvoicesQuery struct {
	common.ListQuery
	Type      string     `form:"type" binding:"omitempty,oneof=sales purchase"`
	Status    string     `form:"status" binding:"omitempty,oneof=draft sent paid cancelled"`
	AccountID string     `form:"account_id" binding:"omitempty,uuid"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
}

// CreateInvoiceRequest represents a request to create an invoice
type CreateInvoiceRequest struct {
	InvoiceNumber string        `json:"invoice_number" binding:"max=50"`
	Type          string        `json:"type" binding:"required,oneof=sales purchase"`
	AccountID     *uuid.UUID    `json:"account_id"`
	Currency      string        `json:"currency" binding:"omitempty,len=3"`
	IssueDate     *time.Time    `json:"issue_date"`
	DueDate       *time.Time    `json:"due_date"`
	Notes         string        `json:"notes"`
	Items         []LineRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateInvoiceRequest represents a request to update invoice header fields
type UpdateInvoiceRequest struct {
	Status  *string    `json:"status" binding:"omitempty,oneof=draft sent paid cancelled"`
	DueDate *time.Time `json:"due_date"`
	Notes   *string    `json:"notes"`
}

// ListOffersQuery filters the offer list
type ListOffersQuery struct {
	common.ListQuery
	Status    string `form:"status" binding:"omitempty,oneof=draft sent accepted rejected invoiced"`
	AccountID string `form:"account_id" binding:"omitempty,uuid"`
}

// CreateOfferRequest represents a request to create an offer
type CreateOfferRequest struct {
	AccountID  *uuid.UUID    `json:"account_id"`
	Currency   string        `json:"currency" binding:"omitempty,len=3"`
	ValidUntil *time.Time    `json:"valid_until"`
	Notes      string        `json:"notes"`
	Items      []LineRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateOfferRequest represents a request to update an offer. Items, when
// present, replace the existing lines.
type UpdateOfferRequest struct {
	AccountID  *uuid.UUID     `json:"account_id"`
	Status     *string        `json:"status" binding:"omitempty,oneof=draft sent accepted rejected"`
	ValidUntil *time.Time     `json:"valid_until"`
	Notes      *string        `json:"notes"`
	Items      *[]LineRequest `json:"items" binding:"omitempty,min=1,dive"`
}

// ConvertOfferResult is the outcome of an offer conversion
type ConvertOfferResult struct {
	Offer   *trade.Offer   `json:"offer"`
	Invoice *trade.Invoice `json:"invoice"`
}

// ListSalesReturnsQuery filters the sales return list
type ListSalesReturnsQuery struct {
	common.ListQuery
	InvoiceID string `form:"invoice_id" binding:"omitempty,uuid"`
	AccountID string `form:"account_id" binding:"omitempty,uuid"`
}

// ReturnLineRequest asks for a quantity of one invoice line back
type ReturnLineRequest struct {
	InvoiceItemID uuid.UUID       `json:"invoice_item_id" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"decimal_positive"`
}

// CreateSalesReturnRequest represents a request to record a sales return
type CreateSalesReturnRequest struct {
	InvoiceID uuid.UUID           `json:"invoice_id" binding:"required"`
	Reason    string              `json:"reason" binding:"max=1000"`
	Items     []ReturnLineRequest `json:"items" binding:"required,min=1,dive"`
}
