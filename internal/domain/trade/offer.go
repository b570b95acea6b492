package trade

import (
	"strings"
	"time"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OfferStatus represents the lifecycle state of a quotation
type OfferStatus string

const (
	OfferStatusDraft    OfferStatus = "draft"
	OfferStatusSent     OfferStatus = "sent"
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusRejected OfferStatus = "rejected"
	OfferStatusInvoiced OfferStatus = "invoiced"
)

// IsValid checks if the status is a known value
func (s OfferStatus) IsValid() bool {
	switch s {
	case OfferStatusDraft, OfferStatusSent, OfferStatusAccepted, OfferStatusRejected, OfferStatusInvoiced:
		return true
	}
	return false
}

// Offer is a quotation that can be converted into a sales invoice
type Offer struct {
	shared.TenantEntity
	OfferNumber   string          `gorm:"type:varchar(50);not null;index" json:"offer_number"`
	Status        OfferStatus     `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	AccountID     *uuid.UUID      `gorm:"type:uuid;index" json:"account_id,omitempty"`
	Currency      string          `gorm:"type:varchar(3);not null;default:'TRY'" json:"currency"`
	ValidUntil    *time.Time      `json:"valid_until,omitempty"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"subtotal"`
	DiscountTotal decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"discount_total"`
	TaxTotal      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"tax_total"`
	Total         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total"`
	Notes         string          `gorm:"type:text" json:"notes"`
	InvoiceID     *uuid.UUID      `gorm:"type:uuid" json:"invoice_id,omitempty"`
	Items         []OfferItem     `gorm:"foreignKey:OfferID;references:ID" json:"items"`
}

// TableName returns the table name for GORM
func (Offer) TableName() string {
	return "offers"
}

// OfferItem is a single quotation line
type OfferItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OfferID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"offer_id"`
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
func (OfferItem) TableName() string {
	return "offer_items"
}

// NewOffer builds a draft offer from its lines
func NewOffer(tenantID, userID uuid.UUID, accountID *uuid.UUID, currency string, validUntil *time.Time, notes string, lines []LineInput) (*Offer, error) {
	currency = strings.ToUpper(currency)
	if currency == "" {
		currency = "TRY"
	}
	o := &Offer{
		TenantEntity: shared.NewTenantEntityWithCreator(tenantID, userID),
		OfferNumber:  GenerateNumber("OFF", time.Now()),
		Status:       OfferStatusDraft,
		AccountID:    accountID,
		Currency:     currency,
		ValidUntil:   validUntil,
		Notes:        notes,
	}
	if err := o.ReplaceItems(lines); err != nil {
		return nil, err
	}
	return o, nil
}

// ReplaceItems discards the current lines and rebuilds them with new ids,
// recomputing the header totals.
func (o *Offer) ReplaceItems(lines []LineInput) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	if len(lines) == 0 {
		return shared.NewInvalidInputError("Offer must have at least one line")
	}
	for i, l := range lines {
		if err := l.Validate(i + 1); err != nil {
			return err
		}
	}
	totals := ComputeTotals(lines)
	o.Subtotal = totals.Subtotal
	o.DiscountTotal = totals.DiscountTotal
	o.TaxTotal = totals.TaxTotal
	o.Total = totals.Total
	o.Items = make([]OfferItem, len(lines))
	for i, l := range lines {
		o.Items[i] = OfferItem{
			ID:           uuid.New(),
			OfferID:      o.ID,
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
	o.Touch()
	return nil
}

// SetStatus changes the status; invoiced is reserved for conversion
func (o *Offer) SetStatus(status OfferStatus) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	if !status.IsValid() || status == OfferStatusInvoiced {
		return shared.NewInvalidInputError("Invalid offer status: " + string(status))
	}
	o.Status = status
	o.Touch()
	return nil
}

// ToInvoice marks the offer as invoiced and builds a sales invoice copying
// the header economics and re-materializing every line 1:1.
func (o *Offer) ToInvoice(userID uuid.UUID, now time.Time) (*Invoice, error) {
	if err := o.ensureEditable(); err != nil {
		return nil, err
	}
	offerID := o.ID
	inv := &Invoice{
		TenantEntity:  shared.NewTenantEntityWithCreator(o.TenantID, userID),
		InvoiceNumber: GenerateNumber("INV", now),
		Type:          InvoiceTypeSales,
		Status:        InvoiceStatusDraft,
		AccountID:     o.AccountID,
		SourceOfferID: &offerID,
		Currency:      o.Currency,
		IssueDate:     now,
		DueDate:       now.Add(DefaultPaymentTerm),
		Subtotal:      o.Subtotal,
		DiscountTotal: o.DiscountTotal,
		TaxTotal:      o.TaxTotal,
		Total:         o.Total,
		Notes:         o.Notes,
	}
	inv.Items = make([]InvoiceItem, len(o.Items))
	for i, it := range o.Items {
		inv.Items[i] = InvoiceItem{
			ID:           uuid.New(),
			InvoiceID:    inv.ID,
			LineNo:       it.LineNo,
			ProductID:    it.ProductID,
			Description:  it.Description,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			TaxRate:      it.TaxRate,
			DiscountRate: it.DiscountRate,
			Total:        it.Total,
		}
	}
	o.Status = OfferStatusInvoiced
	invoiceID := inv.ID
	o.InvoiceID = &invoiceID
	o.Touch()
	return inv, nil
}

func (o *Offer) ensureEditable() error {
	if o.Status == OfferStatusInvoiced {
		return shared.NewDomainError(shared.CodeInvalidState, "Offer has already been invoiced")
	}
	return nil
}
