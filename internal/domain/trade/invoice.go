package trade

import (
	"strings"
	"time"

	"github.com/bizdesk/erp/internal/domain/catalog"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultPaymentTerm is the due-date offset applied when none is given
const DefaultPaymentTerm = 14 * 24 * time.Hour

// InvoiceType distinguishes sales from purchase invoices
type InvoiceType string

const (
	InvoiceTypeSales    InvoiceType = "sales"
	InvoiceTypePurchase InvoiceType = "purchase"
)

// IsValid checks if the type is a known value
func (t InvoiceType) IsValid() bool {
	return t == InvoiceTypeSales || t == InvoiceTypePurchase
}

// MovementType returns the stock movement recorded for lines of this type
func (t InvoiceType) MovementType() catalog.MovementType {
	if t == InvoiceTypePurchase {
		return catalog.MovementPurchase
	}
	return catalog.MovementSale
}

// BalanceDelta returns the account balance change caused by an invoice
// total: sales increase what the counterparty owes, purchases decrease it.
func (t InvoiceType) BalanceDelta(total decimal.Decimal) decimal.Decimal {
	if t == InvoiceTypePurchase {
		return total.Neg()
	}
	return total
}

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// IsValid checks if the status is a known value
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// Invoice is a sales or purchase invoice header with its owned lines
type Invoice struct {
	shared.TenantEntity
	InvoiceNumber string          `gorm:"type:varchar(50);not null;index" json:"invoice_number"`
	Type          InvoiceType     `gorm:"type:varchar(20);not null;index" json:"type"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	AccountID     *uuid.UUID      `gorm:"type:uuid;index" json:"account_id,omitempty"`
	SourceOfferID *uuid.UUID      `gorm:"type:uuid" json:"source_offer_id,omitempty"`
	Currency      string          `gorm:"type:varchar(3);not null;default:'TRY'" json:"currency"`
	IssueDate     time.Time       `gorm:"not null" json:"issue_date"`
	DueDate       time.Time       `gorm:"not null" json:"due_date"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"subtotal"`
	DiscountTotal decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"discount_total"`
	TaxTotal      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"tax_total"`
	Total         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total"`
	Notes         string          `gorm:"type:text" json:"notes"`
	Items         []InvoiceItem   `gorm:"foreignKey:InvoiceID;references:ID" json:"items"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem is a single invoice line
type InvoiceItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	LineNo       int             `gorm:"not null" json:"line_no"`
	ProductID    *uuid.UUID      `gorm:"type:uuid" json:"product_id,omitempty"`
	Description  string          `gorm:"type:varchar(500)" json:"description"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	TaxRate      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"tax_rate"`
	DiscountRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount_rate"`
	Total        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total"`
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// InvoiceHeader carries the caller-supplied header fields
type InvoiceHeader struct {
	Number    string
	Type      InvoiceType
	AccountID *uuid.UUID
	Currency  string
	IssueDate time.Time
	DueDate   *time.Time
	Notes     string
}

// NewInvoice builds an invoice and its lines. Header totals are the
// aggregation of the lines.
func NewInvoice(tenantID, userID uuid.UUID, header InvoiceHeader, lines []LineInput) (*Invoice, error) {
	if !header.Type.IsValid() {
		return nil, shared.NewInvalidInputError("Invoice type must be sales or purchase")
	}
	if len(lines) == 0 {
		return nil, shared.NewInvalidInputError("Invoice must have at least one line")
	}
	for i, l := range lines {
		if err := l.Validate(i + 1); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	issue := header.IssueDate
	if issue.IsZero() {
		issue = now
	}
	due := issue.Add(DefaultPaymentTerm)
	if header.DueDate != nil {
		if header.DueDate.Before(issue) {
			return nil, shared.NewInvalidInputError("Due date cannot be before issue date")
		}
		due = *header.DueDate
	}
	number := strings.TrimSpace(header.Number)
	if number == "" {
		number = GenerateNumber("INV", now)
	}
	currency := strings.ToUpper(header.Currency)
	if currency == "" {
		currency = "TRY"
	}

	totals := ComputeTotals(lines)
	inv := &Invoice{
		TenantEntity:  shared.NewTenantEntityWithCreator(tenantID, userID),
		InvoiceNumber: number,
		Type:          header.Type,
		Status:        InvoiceStatusDraft,
		AccountID:     header.AccountID,
		Currency:      currency,
		IssueDate:     issue,
		DueDate:       due,
		Subtotal:      totals.Subtotal,
		DiscountTotal: totals.DiscountTotal,
		TaxTotal:      totals.TaxTotal,
		Total:         totals.Total,
		Notes:         header.Notes,
	}
	inv.Items = make([]InvoiceItem, len(lines))
	for i, l := range lines {
		inv.Items[i] = InvoiceItem{
			ID:           uuid.New(),
			InvoiceID:    inv.ID,
			LineNo:       i + 1,
			ProductID:    l.ProductID,
			Description:  l.Description,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			TaxRate:      l.TaxRate,
			DiscountRate: l.DiscountRate,
			Total:        l.LineTotal(),
		}
	}
	return inv, nil
}

// SetStatus changes the invoice status
func (i *Invoice) SetStatus(status InvoiceStatus) error {
	if !status.IsValid() {
		return shared.NewInvalidInputError("Unknown invoice status: " + string(status))
	}
	if i.Status == InvoiceStatusCancelled && status != InvoiceStatusCancelled {
		return shared.NewDomainError(shared.CodeInvalidState, "Cancelled invoice cannot be reopened")
	}
	i.Status = status
	i.Touch()
	return nil
}

// SetDueDate changes the due date
func (i *Invoice) SetDueDate(due time.Time) error {
	if due.Before(i.IssueDate) {
		return shared.NewInvalidInputError("Due date cannot be before issue date")
	}
	i.DueDate = due
	i.Touch()
	return nil
}

// IsSales reports whether this is a sales invoice
func (i *Invoice) IsSales() bool {
	return i.Type == InvoiceTypeSales
}

// FindItem returns the line with the given id
func (i *Invoice) FindItem(id uuid.UUID) *InvoiceItem {
	for idx := range i.Items {
		if i.Items[idx].ID == id {
			return &i.Items[idx]
		}
	}
	return nil
}
