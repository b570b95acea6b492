package tenancy

import (
	"context"
	"strings"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/bizdesk/erp/internal/domain/tenancy"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PackageService manages the global subscription package catalog
type PackageService struct {
	packages tenancy.PackageRepository
	logger   *zap.Logger
}

// NewPackageService creates a new PackageService
func NewPackageService(packages tenancy.PackageRepository, logger *zap.Logger) *PackageService {
	return &PackageService{packages: packages, logger: logger}
}

// List returns a page of packages
func (s *PackageService) List(ctx context.Context, q ListPackagesQuery) (common.Page[tenancy.SubscriptionPackage], error) {
	f := q.Filter()
	if q.Active != nil {
		f = f.With("is_active", *q.Active)
	}
	items, total, err := s.packages.FindAll(ctx, f)
	if err != nil {
		return common.Page[tenancy.SubscriptionPackage]{}, err
	}
	return common.NewPage(items, total, f), nil
}

// Get returns a package by ID
func (s *PackageService) Get(ctx context.Context, id uuid.UUID) (*tenancy.SubscriptionPackage, error) {
	return s.packages.FindByID(ctx, id)
}

// Create adds a package
func (s *PackageService) Create(ctx context.Context, req CreatePackageRequest) (*tenancy.SubscriptionPackage, error) {
	pkg, err := tenancy.NewSubscriptionPackage(req.Name, req.Price, req.Currency, req.BillingPeriodMonths)
	if err != nil {
		return nil, err
	}
	pkg.Description = req.Description
	pkg.MaxUsers = req.MaxUsers
	pkg.Modules = normalizeModules(req.Modules)
	if err := s.packages.Create(ctx, pkg); err != nil {
		return nil, err
	}
	s.logger.Info("Subscription package created", zap.String("package_id", pkg.ID.String()), zap.String("name", pkg.Name))
	return pkg, nil
}

// Update applies a partial update
func (s *PackageService) Update(ctx context.Context, id uuid.UUID, req UpdatePackageRequest) (*tenancy.SubscriptionPackage, error) {
	pkg, err := s.packages.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		pkg.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		pkg.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, shared.NewInvalidInputError("Package price cannot be negative")
		}
		pkg.Price = *req.Price
	}
	if req.BillingPeriodMonths != nil {
		pkg.BillingPeriodMonths = *req.BillingPeriodMonths
	}
	if req.MaxUsers != nil {
		pkg.MaxUsers = *req.MaxUsers
	}
	if req.Modules != nil {
		pkg.Modules = normalizeModules(*req.Modules)
	}
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}
	pkg.Touch()
	if err := s.packages.Save(ctx, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

// Delete removes a package
func (s *PackageService) Delete(ctx context.Context, id uuid.UUID) error {
	pkg, err := s.packages.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return s.packages.Delete(ctx, pkg.ID)
}

func normalizeModules(modules []string) shared.StringList {
	out := make(shared.StringList, 0, len(modules))
	for _, m := range modules {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" && !out.Contains(m) {
			out = append(out, m)
		}
	}
	return out
}
