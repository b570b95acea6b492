package identity

import (
	"context"

	"github.com/bizdesk/erp/internal/domain/identity"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/bizdesk/erp/internal/domain/tenancy"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.User, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTenantRepository is a mock implementation of tenancy.TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenancy.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenancy.Tenant), args.Error(1)
}

func (m *MockTenantRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockTenantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]tenancy.Tenant, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]tenancy.Tenant), args.Get(1).(int64), args.Error(2)
}

func (m *MockTenantRepository) Create(ctx context.Context, tenant *tenancy.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) Save(ctx context.Context, tenant *tenancy.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPackageRepository is a mock implementation of tenancy.PackageRepository
type MockPackageRepository struct {
	mock.Mock
}

func (m *MockPackageRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenancy.SubscriptionPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenancy.SubscriptionPackage), args.Error(1)
}

func (m *MockPackageRepository) FindAll(ctx context.Context, filter shared.Filter) ([]tenancy.SubscriptionPackage, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]tenancy.SubscriptionPackage), args.Get(1).(int64), args.Error(2)
}

func (m *MockPackageRepository) Create(ctx context.Context, pkg *tenancy.SubscriptionPackage) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

func (m *MockPackageRepository) Save(ctx context.Context, pkg *tenancy.SubscriptionPackage) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

func (m *MockPackageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
