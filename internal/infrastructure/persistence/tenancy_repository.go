package persistence

import (
	"context"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/bizdesk/erp/internal/domain/tenancy"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var tenantListSpec = listSpec{
	sortFields:   fields("name", "slug", "subscription_status", "subscription_ends_at"),
	filterFields: fields("subscription_status", "package_id"),
	searchFields: []string{"name", "slug", "contact_email"},
}

// GormTenantRepository implements tenancy.TenantRepository
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant by id
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenancy.Tenant, error) {
	return first[tenancy.Tenant](r.db.WithContext(ctx), "id = ?", id)
}

// ExistsBySlug checks whether a slug is taken
func (r *GormTenantRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&tenancy.Tenant{}).Where("slug = ?", slug))
}

// FindAll lists every tenant
func (r *GormTenantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]tenancy.Tenant, int64, error) {
	return list[tenancy.Tenant](r.db.WithContext(ctx), filter, tenantListSpec)
}

// Create inserts a tenant
func (r *GormTenantRepository) Create(ctx context.Context, tenant *tenancy.Tenant) error {
	err := r.db.WithContext(ctx).Create(tenant).Error
	return duplicateKey(err, shared.NewDomainError(shared.CodeAlreadyExists, "Tenant slug "+tenant.Slug+" is already used"))
}

// Save updates a tenant
func (r *GormTenantRepository) Save(ctx context.Context, tenant *tenancy.Tenant) error {
	return r.db.WithContext(ctx).Save(tenant).Error
}

// Delete removes a tenant
func (r *GormTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[tenancy.Tenant](ctx, r.db, id)
}

var packageListSpec = listSpec{
	sortFields:   fields("name", "price"),
	defaultSort:  "price",
	filterFields: fields("is_active", "currency"),
	searchFields: []string{"name"},
}

// GormPackageRepository implements tenancy.PackageRepository
type GormPackageRepository struct {
	db *gorm.DB
}

// NewGormPackageRepository creates a new GormPackageRepository
func NewGormPackageRepository(db *gorm.DB) *GormPackageRepository {
	return &GormPackageRepository{db: db}
}

// FindByID finds a package by id
func (r *GormPackageRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenancy.SubscriptionPackage, error) {
	return first[tenancy.SubscriptionPackage](r.db.WithContext(ctx), "id = ?", id)
}

// FindAll lists packages
func (r *GormPackageRepository) FindAll(ctx context.Context, filter shared.Filter) ([]tenancy.SubscriptionPackage, int64, error) {
	return list[tenancy.SubscriptionPackage](r.db.WithContext(ctx), filter, packageListSpec)
}

// Create inserts a package
func (r *GormPackageRepository) Create(ctx context.Context, pkg *tenancy.SubscriptionPackage) error {
	return r.db.WithContext(ctx).Create(pkg).Error
}

// Save updates a package
func (r *GormPackageRepository) Save(ctx context.Context, pkg *tenancy.SubscriptionPackage) error {
	return r.db.WithContext(ctx).Save(pkg).Error
}

// Delete removes a package
func (r *GormPackageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[tenancy.SubscriptionPackage](ctx, r.db, id)
}

var supportTicketListSpec = listSpec{
	sortFields:   fields("status", "priority", "replied_at"),
	filterFields: fields("status", "priority", "tenant_id"),
	searchFields: []string{"subject", "message"},
}

// GormSupportTicketRepository implements tenancy.SupportTicketRepository
type GormSupportTicketRepository struct {
	db *gorm.DB
}

// NewGormSupportTicketRepository creates a new GormSupportTicketRepository
func NewGormSupportTicketRepository(db *gorm.DB) *GormSupportTicketRepository {
	return &GormSupportTicketRepository{db: db}
}

// FindByID finds a ticket by id across tenants
func (r *GormSupportTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenancy.SupportTicket, error) {
	return first[tenancy.SupportTicket](r.db.WithContext(ctx), "id = ?", id)
}

// FindAllForTenant lists the tickets of one tenant
func (r *GormSupportTicketRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]tenancy.SupportTicket, int64, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	return list[tenancy.SupportTicket](q, filter, supportTicketListSpec)
}

// FindAll lists tickets of all tenants
func (r *GormSupportTicketRepository) FindAll(ctx context.Context, filter shared.Filter) ([]tenancy.SupportTicket, int64, error) {
	return list[tenancy.SupportTicket](r.db.WithContext(ctx), filter, supportTicketListSpec)
}

// Create inserts a ticket
func (r *GormSupportTicketRepository) Create(ctx context.Context, ticket *tenancy.SupportTicket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

// Save updates a ticket
func (r *GormSupportTicketRepository) Save(ctx context.Context, ticket *tenancy.SupportTicket) error {
	return r.db.WithContext(ctx).Save(ticket).Error
}

var paymentListSpec = listSpec{
	sortFields:   fields("paid_at", "amount"),
	defaultSort:  "paid_at",
	filterFields: fields("tenant_id", "package_id", "method"),
	searchFields: []string{"reference"},
	dateField:    "paid_at",
}

// GormPaymentRepository implements tenancy.PaymentRepository
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindAll lists payments
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]tenancy.SubscriptionPayment, int64, error) {
	return list[tenancy.SubscriptionPayment](r.db.WithContext(ctx), filter, paymentListSpec)
}

// Create inserts a payment
func (r *GormPaymentRepository) Create(ctx context.Context, payment *tenancy.SubscriptionPayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

var (
	_ tenancy.TenantRepository        = (*GormTenantRepository)(nil)
	_ tenancy.PackageRepository       = (*GormPackageRepository)(nil)
	_ tenancy.SupportTicketRepository = (*GormSupportTicketRepository)(nil)
	_ tenancy.PaymentRepository       = (*GormPaymentRepository)(nil)
)
