package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/bizdesk/erp/internal/domain/partner"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var accountListSpec = listSpec{
	sortFields:   fields("code", "name", "type", "balance"),
	filterFields: fields("type"),
	searchFields: []string{"name", "code", "contact_name", "email"},
}

// GormAccountRepository implements partner.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByIDForTenant finds an account by ID within a tenant
func (r *GormAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Account, error) {
	return findForTenant[partner.Account](ctx, r.db, tenantID, id)
}

// FindAllForTenant lists the accounts of a tenant
func (r *GormAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Account, int64, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	return list[partner.Account](q, filter, accountListSpec)
}

// ExistsByCode checks if a code is used within a tenant
func (r *GormAccountRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&partner.Account{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)))
}

// Create inserts an account
func (r *GormAccountRepository) Create(ctx context.Context, account *partner.Account) error {
	err := r.db.WithContext(ctx).Create(account).Error
	return duplicateKey(err, shared.NewDomainError(shared.CodeAlreadyExists, "Account with this code already exists"))
}

// Save updates descriptive fields; the balance column is left untouched
func (r *GormAccountRepository) Save(ctx context.Context, account *partner.Account) error {
	return r.db.WithContext(ctx).Omit(clause.Associations, "balance").Save(account).Error
}

// Delete removes an account
func (r *GormAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[partner.Account](ctx, r.db, id)
}

// AdjustBalance adds delta to the stored balance in a single UPDATE
func (r *GormAccountRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	return adjustColumn(ctx, r.db, &partner.Account{}, id, "balance", delta)
}

// adjustColumn issues UPDATE t SET col = col + delta WHERE id = ? and reports
// shared.ErrNotFound when no row matched
func adjustColumn(ctx context.Context, db *gorm.DB, model any, id uuid.UUID, column string, delta decimal.Decimal) error {
	res := db.WithContext(ctx).Model(model).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			column:       gorm.Expr(column+" + ?", delta),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ partner.AccountRepository = (*GormAccountRepository)(nil)
