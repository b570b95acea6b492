package tenancy

import (
	"context"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
)

// TenantRepository persists tenants
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Tenant, int64, error)
	Create(ctx context.Context, tenant *Tenant) error
	Save(ctx context.Context, tenant *Tenant) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PackageRepository persists subscription packages
type PackageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SubscriptionPackage, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]SubscriptionPackage, int64, error)
	Create(ctx context.Context, pkg *SubscriptionPackage) error
	Save(ctx context.Context, pkg *SubscriptionPackage) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SupportTicketRepository persists support tickets
type SupportTicketRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SupportTicket, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SupportTicket, int64, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]SupportTicket, int64, error)
	Create(ctx context.Context, ticket *SupportTicket) error
	Save(ctx context.Context, ticket *SupportTicket) error
}

// PaymentRepository persists subscription payments
type PaymentRepository interface {
	FindAll(ctx context.Context, filter shared.Filter) ([]SubscriptionPayment, int64, error)
	Create(ctx context.Context, payment *SubscriptionPayment) error
}
