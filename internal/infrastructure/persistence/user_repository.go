package persistence

import (
	"context"
	"strings"

	"github.com/bizdesk/erp/internal/domain/identity"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var userListSpec = listSpec{
	sortFields:   fields("name", "email", "role", "status", "last_login_at"),
	filterFields: fields("role", "status"),
	searchFields: []string{"name", "email"},
}

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID in any tenant
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return first[identity.User](r.db.WithContext(ctx), "id = ?", id)
}

// FindByIDForTenant finds a user by ID within a tenant
func (r *GormUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	return findForTenant[identity.User](ctx, r.db, tenantID, id)
}

// FindByEmail finds a user by email across all tenants
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	return first[identity.User](r.db.WithContext(ctx), "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

// FindAllForTenant lists the users of a tenant
func (r *GormUserRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.User, int64, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	return list[identity.User](q, filter, userListSpec)
}

// ExistsByEmail checks if an email is registered in any tenant
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&identity.User{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))))
}

// Create inserts a user
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	return duplicateKey(err, shared.NewDomainError(shared.CodeAlreadyExists, "A user with this email already exists"))
}

// Save updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete removes a user
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[identity.User](ctx, r.db, id)
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
