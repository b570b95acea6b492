package persistence

import (
	"context"
	"fmt"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/bizdesk/erp/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var invoiceListSpec = listSpec{
	sortFields:   fields("invoice_number", "issue_date", "due_date", "total", "status"),
	defaultSort:  "issue_date",
	filterFields: fields("type", "status", "account_id", "currency"),
	searchFields: []string{"invoice_number", "notes"},
	dateField:    "issue_date",
}

// GormInvoiceRepository implements trade.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByIDForTenant loads an invoice and its items ordered by line number
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Invoice, error) {
	return findForTenant[trade.Invoice](ctx, r.db, tenantID, id, "Items")
}

// FindAllForTenant lists invoice headers of a tenant
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Invoice, int64, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	return list[trade.Invoice](q, filter, invoiceListSpec)
}

// ExistsByNumber checks if an invoice number is used within a tenant
func (r *GormInvoiceRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&trade.Invoice{}).
		Where("tenant_id = ? AND invoice_number = ?", tenantID, number))
}

// Create inserts the header and its items
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *trade.Invoice) error {
	err := r.db.WithContext(ctx).Create(invoice).Error
	return duplicateKey(err, shared.NewDomainError(shared.CodeAlreadyExists,
		"Invoice number "+invoice.InvoiceNumber+" is already used"))
}

// Save updates header fields only
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *trade.Invoice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(invoice).Error
}

// Delete removes the items and the header
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&trade.InvoiceItem{}).Error; err != nil {
			return fmt.Errorf("delete invoice items: %w", err)
		}
		return deleteByID[trade.Invoice](ctx, tx, id)
	})
}

var offerListSpec = listSpec{
	sortFields:   fields("offer_number", "valid_until", "total", "status"),
	filterFields: fields("status", "account_id"),
	searchFields: []string{"offer_number", "notes"},
}

// GormOfferRepository implements trade.OfferRepository using GORM
type GormOfferRepository struct {
	db *gorm.DB
}

// NewGormOfferRepository creates a new GormOfferRepository
func NewGormOfferRepository(db *gorm.DB) *GormOfferRepository {
	return &GormOfferRepository{db: db}
}

// FindByIDForTenant loads an offer and its items ordered by line number
func (r *GormOfferRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Offer, error) {
	return findForTenant[trade.Offer](ctx, r.db, tenantID, id, "Items")
}

// FindByIDForTenantForUpdate loads an offer with SELECT ... FOR UPDATE on
// PostgreSQL so concurrent conversions serialize on the offer row
func (r *GormOfferRepository) FindByIDForTenantForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*trade.Offer, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id)
	if isPostgres(q) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return first[trade.Offer](q.Preload("Items", orderedPreload("Items")))
}

// FindAllForTenant lists offer headers of a tenant
func (r *GormOfferRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Offer, int64, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	return list[trade.Offer](q, filter, offerListSpec)
}

// Create inserts the header and its items
func (r *GormOfferRepository) Create(ctx context.Context, offer *trade.Offer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

// Save updates the header and optionally replaces all items
func (r *GormOfferRepository) Save(ctx context.Context, offer *trade.Offer, replaceItems bool) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(offer).Error; err != nil {
			return fmt.Errorf("save offer: %w", err)
		}
		if !replaceItems {
			return nil
		}
		if err := tx.Where("offer_id = ?", offer.ID).Delete(&trade.OfferItem{}).Error; err != nil {
			return fmt.Errorf("delete offer items: %w", err)
		}
		if len(offer.Items) == 0 {
			return nil
		}
		return tx.Create(&offer.Items).Error
	})
}

// Delete removes the items and the header
func (r *GormOfferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("offer_id = ?", id).Delete(&trade.OfferItem{}).Error; err != nil {
			return fmt.Errorf("delete offer items: %w", err)
		}
		return deleteByID[trade.Offer](ctx, tx, id)
	})
}

var salesReturnListSpec = listSpec{
	sortFields:   fields("return_number", "returned_at", "total"),
	defaultSort:  "returned_at",
	filterFields: fields("invoice_id", "account_id"),
	searchFields: []string{"return_number", "reason"},
	dateField:    "returned_at",
}

// GormSalesReturnRepository implements trade.SalesReturnRepository
type GormSalesReturnRepository struct {
	db *gorm.DB
}

// NewGormSalesReturnRepository creates a new GormSalesReturnRepository
func NewGormSalesReturnRepository(db *gorm.DB) *GormSalesReturnRepository {
	return &GormSalesReturnRepository{db: db}
}

// FindByIDForTenant loads a return with its items
func (r *GormSalesReturnRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.SalesReturn, error) {
	return findForTenant[trade.SalesReturn](ctx, r.db, tenantID, id, "Items")
}

// FindAllForTenant lists return headers of a tenant
func (r *GormSalesReturnRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.SalesReturn, int64, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	return list[trade.SalesReturn](q, filter, salesReturnListSpec)
}

// Create inserts the header and its items
func (r *GormSalesReturnRepository) Create(ctx context.Context, ret *trade.SalesReturn) error {
	return r.db.WithContext(ctx).Create(ret).Error
}

// ReturnedQuantities sums the returned quantity per invoice item of an invoice
func (r *GormSalesReturnRepository) ReturnedQuantities(ctx context.Context, invoiceID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	var rows []struct {
		InvoiceItemID uuid.UUID
		Quantity      decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Table("sales_return_items AS i").
		Select("i.invoice_item_id, SUM(i.quantity) AS quantity").
		Joins("JOIN sales_returns r ON r.id = i.return_id").
		Where("r.invoice_id = ?", invoiceID).
		Group("i.invoice_item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sum returned quantities: %w", err)
	}
	out := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.InvoiceItemID] = row.Quantity
	}
	return out, nil
}

// withTx runs fn in a transaction, nesting as a savepoint inside an outer one
func withTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

var (
	_ trade.InvoiceRepository     = (*GormInvoiceRepository)(nil)
	_ trade.OfferRepository       = (*GormOfferRepository)(nil)
	_ trade.SalesReturnRepository = (*GormSalesReturnRepository)(nil)
)
