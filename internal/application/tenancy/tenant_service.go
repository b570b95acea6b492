package tenancy

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/domain/identity"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/bizdesk/erp/internal/domain/tenancy"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantService lets super-admins manage tenants
type TenantService struct {
	tenants  tenancy.TenantRepository
	packages tenancy.PackageRepository
	users    identity.UserRepository
	txScope  common.TransactionScope
	logger   *zap.Logger
}

// NewTenantService creates a new TenantService
func NewTenantService(
	tenants tenancy.TenantRepository,
	packages tenancy.PackageRepository,
	users identity.UserRepository,
	txScope common.TransactionScope,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{
		tenants:  tenants,
		packages: packages,
		users:    users,
		txScope:  txScope,
		logger:   logger,
	}
}

// CreateTenantResult is the new tenant and its first admin
type CreateTenantResult struct {
	Tenant *tenancy.Tenant `json:"tenant"`
	Admin  *identity.User  `json:"admin"`
}

// List returns a page of all tenants
func (s *TenantService) List(ctx context.Context, q ListTenantsQuery) (common.Page[tenancy.Tenant], error) {
	f := q.Filter().With("subscription_status", q.Status).With("package_id", q.PackageID)
	items, total, err := s.tenants.FindAll(ctx, f)
	if err != nil {
		return common.Page[tenancy.Tenant]{}, err
	}
	return common.NewPage(items, total, f), nil
}

// Get returns a tenant by ID
func (s *TenantService) Get(ctx context.Context, id uuid.UUID) (*tenancy.Tenant, error) {
	return s.tenants.FindByID(ctx, id)
}

// Create provisions a tenant in trial together with its admin user in one
// transaction
func (s *TenantService) Create(ctx context.Context, req CreateTenantRequest) (*CreateTenantResult, error) {
	tenant, err := tenancy.NewTenant(req.Name, req.Slug, req.ContactEmail)
	if err != nil {
		return nil, err
	}
	if req.PackageID != nil {
		if err := s.checkPackage(ctx, *req.PackageID); err != nil {
			return nil, err
		}
		tenant.PackageID = req.PackageID
	}
	admin, err := identity.NewUser(tenant.ID, req.AdminEmail, req.AdminName, req.AdminPassword, identity.RoleAdmin)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos common.Repositories) error {
		taken, err := repos.Tenants().ExistsBySlug(ctx, tenant.Slug)
		if err != nil {
			return err
		}
		if taken {
			return shared.NewDomainError(shared.CodeAlreadyExists, "Tenant slug "+tenant.Slug+" is already used")
		}
		taken, err = repos.Users().ExistsByEmail(ctx, admin.Email)
		if err != nil {
			return err
		}
		if taken {
			return shared.NewDomainError(shared.CodeAlreadyExists, "Email "+admin.Email+" is already registered")
		}
		if err := repos.Tenants().Create(ctx, tenant); err != nil {
			return err
		}
		return repos.Users().Create(ctx, admin)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Tenant created",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("slug", tenant.Slug),
		zap.String("admin_id", admin.ID.String()))
	return &CreateTenantResult{Tenant: tenant, Admin: admin}, nil
}

// Update applies a partial update
func (s *TenantService) Update(ctx context.Context, id uuid.UUID, req UpdateTenantRequest) (*tenancy.Tenant, error) {
	tenant, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, shared.NewInvalidInputError("Tenant name cannot be empty")
		}
		tenant.Name = name
	}
	if req.ContactEmail != nil {
		tenant.ContactEmail = *req.ContactEmail
	}
	if req.PackageID != nil {
		if err := s.checkPackage(ctx, *req.PackageID); err != nil {
			return nil, err
		}
		tenant.PackageID = req.PackageID
	}
	if req.SubscriptionStatus != nil {
		if err := tenant.SetStatus(tenancy.SubscriptionStatus(*req.SubscriptionStatus)); err != nil {
			return nil, err
		}
	}
	if req.SubscriptionEndsAt != nil {
		tenant.SubscriptionEndsAt = req.SubscriptionEndsAt
	}
	tenant.Touch()
	if err := s.tenants.Save(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// Delete removes a tenant. The system tenant is protected.
func (s *TenantService) Delete(ctx context.Context, id uuid.UUID) error {
	tenant, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if tenant.IsSystem() {
		return shared.NewBusinessRuleError("System tenant cannot be deleted")
	}
	if err := s.tenants.Delete(ctx, tenant.ID); err != nil {
		return err
	}
	s.logger.Info("Tenant deleted", zap.String("tenant_id", tenant.ID.String()), zap.String("slug", tenant.Slug))
	return nil
}

func (s *TenantService) checkPackage(ctx context.Context, id uuid.UUID) error {
	if _, err := s.packages.FindByID(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewInvalidInputError("Unknown subscription package")
		}
		return err
	}
	return nil
}

// PaymentService records subscription payments
type PaymentService struct {
	payments tenancy.PaymentRepository
	packages tenancy.PackageRepository
	txScope  common.TransactionScope
	logger   *zap.Logger
	now      func() time.Time
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(payments tenancy.PaymentRepository, packages tenancy.PackageRepository, txScope common.TransactionScope, logger *zap.Logger) *PaymentService {
	return &PaymentService{payments: payments, packages: packages, txScope: txScope, logger: logger, now: time.Now}
}

// List returns a page of payments across tenants
func (s *PaymentService) List(ctx context.Context, q ListPaymentsQuery) (common.Page[tenancy.SubscriptionPayment], error) {
	f := q.Filter().
		With("tenant_id", q.TenantID).
		With("package_id", q.PackageID).
		With("method", q.Method)
	items, total, err := s.payments.FindAll(ctx, f)
	if err != nil {
		return common.Page[tenancy.SubscriptionPayment]{}, err
	}
	return common.NewPage(items, total, f), nil
}

// Create records a payment and, in the same transaction, activates the
// tenant on the package and extends its subscription by the paid months
func (s *PaymentService) Create(ctx context.Context, req CreatePaymentRequest) (*tenancy.SubscriptionPayment, error) {
	pkg, err := s.packages.FindByID(ctx, req.PackageID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewInvalidInputError("Unknown subscription package")
		}
		return nil, err
	}
	payment, err := tenancy.NewSubscriptionPayment(req.TenantID, pkg.ID, req.Amount, pkg.Currency, req.Months)
	if err != nil {
		return nil, err
	}
	payment.Method = req.Method
	payment.Reference = req.Reference

	err = s.txScope.Execute(ctx, func(repos common.Repositories) error {
		tenant, err := repos.Tenants().FindByID(ctx, req.TenantID)
		if err != nil {
			return err
		}
		if err := tenant.ExtendSubscription(pkg.ID, req.Months, s.now()); err != nil {
			return err
		}
		if err := repos.Payments().Create(ctx, payment); err != nil {
			return err
		}
		return repos.Tenants().Save(ctx, tenant)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Subscription payment recorded",
		zap.String("tenant_id", payment.TenantID.String()),
		zap.String("package_id", pkg.ID.String()),
		zap.String("amount", payment.Amount.String()),
		zap.Int("months", payment.Months))
	return payment, nil
}
