package persistence

import (
	"context"
	"strings"

	"github.com/bizdesk/erp/internal/domain/catalog"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var productListSpec = listSpec{
	sortFields:   fields("code", "name", "sale_price", "purchase_price", "stock"),
	filterFields: fields("is_active", "unit"),
	searchFields: []string{"name", "code", "description"},
}

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByIDForTenant finds a product by ID within a tenant
func (r *GormProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	return findForTenant[catalog.Product](ctx, r.db, tenantID, id)
}

// FindAllForTenant lists the products of a tenant
func (r *GormProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	return list[catalog.Product](q, filter, productListSpec)
}

// ExistsByCode checks if a code is used within a tenant
func (r *GormProductRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)))
}

// Create inserts a product
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	err := r.db.WithContext(ctx).Create(product).Error
	return duplicateKey(err, shared.NewDomainError(shared.CodeAlreadyExists, "Product with this code already exists"))
}

// Save updates descriptive fields and prices; stock is left untouched
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations, "stock").Save(product).Error
}

// Delete removes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[catalog.Product](ctx, r.db, id)
}

// AdjustStock adds delta to the stored stock in a single UPDATE
func (r *GormProductRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	return adjustColumn(ctx, r.db, &catalog.Product{}, id, "stock", delta)
}

var movementListSpec = listSpec{
	sortFields:   map[string]bool{"created_at": true, "quantity": true, "type": true},
	filterFields: map[string]bool{"type": true, "reference_type": true},
}

// GormStockMovementRepository implements catalog.StockMovementRepository
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Create appends a movement
func (r *GormStockMovementRepository) Create(ctx context.Context, movement *catalog.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByProduct lists the movements of a product, newest first by default
func (r *GormStockMovementRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]catalog.StockMovement, int64, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ? AND product_id = ?", tenantID, productID)
	return list[catalog.StockMovement](q, filter, movementListSpec)
}

// FindByReference lists the movements caused by one document
func (r *GormStockMovementRepository) FindByReference(ctx context.Context, tenantID uuid.UUID, refType string, refID uuid.UUID) ([]catalog.StockMovement, error) {
	var out []catalog.StockMovement
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND reference_type = ? AND reference_id = ?", tenantID, refType, refID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

var (
	_ catalog.ProductRepository       = (*GormProductRepository)(nil)
	_ catalog.StockMovementRepository = (*GormStockMovementRepository)(nil)
)
