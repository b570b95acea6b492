package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bizdesk/erp/internal/domain/identity"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/bizdesk/erp/internal/domain/tenancy"
	"github.com/bizdesk/erp/internal/infrastructure/auth"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type userFixture struct {
	users     *MockUserRepository
	tenants   *MockTenantRepository
	packages  *MockPackageRepository
	blacklist *auth.InMemoryTokenBlacklist
	svc       *UserService
}

func newUserFixture() *userFixture {
	f := &userFixture{
		users:     new(MockUserRepository),
		tenants:   new(MockTenantRepository),
		packages:  new(MockPackageRepository),
		blacklist: auth.NewInMemoryTokenBlacklist(),
	}
	f.svc = NewUserService(f.users, f.tenants, f.packages, f.blacklist, zap.NewNop())
	return f
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture()
	tenant := createTestTenant(t)

	f.users.On("ExistsByEmail", ctx, "new@example.com").Return(false, nil)
	f.tenants.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	f.users.On("Create", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

	user, err := f.svc.Create(ctx, tenant.ID, CreateUserRequest{
		Email:    "New@Example.com",
		Name:     "New User",
		Password: "Password123",
		Role:     "staff",
		Modules:  []string{identity.ModuleTasks, identity.ModuleTasks},
	})

	require.NoError(t, err)
	assert.Equal(t, tenant.ID, user.TenantID)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, shared.StringList{identity.ModuleTasks}, user.AllowedModules)
	assert.True(t, user.VerifyPassword("Password123"))
	f.users.AssertExpectations(t)
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture()
	f.users.On("ExistsByEmail", ctx, "jane@example.com").Return(true, nil)

	_, err := f.svc.Create(ctx, uuid.New(), CreateUserRequest{
		Email: "jane@example.com", Name: "Jane", Password: "Password123", Role: "staff",
	})

	assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_Create_DuplicateEmailDifferentCase(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture()
	f.users.On("ExistsByEmail", ctx, "jane@example.com").Return(true, nil)

	_, err := f.svc.Create(ctx, uuid.New(), CreateUserRequest{
		Email: "  Jane@Example.COM ", Name: "Jane", Password: "Password123", Role: "staff",
	})

	assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	f.users.AssertExpectations(t)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_Create_SeatLimit(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture()
	tenant := createTestTenant(t)
	pkg, err := tenancy.NewSubscriptionPackage("Basic", decimal.NewFromInt(100), "TRY", 1)
	require.NoError(t, err)
	pkg.MaxUsers = 2
	require.NoError(t, tenant.ExtendSubscription(pkg.ID, 1, time.Now()))

	f.users.On("ExistsByEmail", ctx, "third@example.com").Return(false, nil)
	f.tenants.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	f.packages.On("FindByID", ctx, pkg.ID).Return(pkg, nil)
	f.users.On("FindAllForTenant", ctx, tenant.ID, mock.Anything).Return([]identity.User{}, int64(2), nil)

	_, err = f.svc.Create(ctx, tenant.ID, CreateUserRequest{
		Email: "third@example.com", Name: "Third", Password: "Password123", Role: "staff",
	})

	assert.True(t, errors.Is(err, shared.ErrBusinessRule))
}

func TestUserService_Update_DeactivationRevokesSessions(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture()
	tenantID := uuid.New()
	user := createTestUser(t, tenantID, identity.RoleStaff)
	issuedBefore := time.Now().Add(-time.Minute)

	f.users.On("FindByIDForTenant", ctx, tenantID, user.ID).Return(user, nil)
	f.users.On("Save", ctx, user).Return(nil)

	status := string(identity.UserStatusInactive)
	updated, err := f.svc.Update(ctx, tenantID, user.ID, UpdateUserRequest{Status: &status})

	require.NoError(t, err)
	assert.False(t, updated.IsActive())
	invalidated, err := f.blacklist.IsUserTokenInvalidated(ctx, user.ID.String(), issuedBefore)
	require.NoError(t, err)
	assert.True(t, invalidated)
}

func TestUserService_Update_RoleAndModules(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture()
	tenantID := uuid.New()
	user := createTestUser(t, tenantID, identity.RoleStaff)

	f.users.On("FindByIDForTenant", ctx, tenantID, user.ID).Return(user, nil)
	f.users.On("Save", ctx, user).Return(nil)

	role := "manager"
	modules := []string{identity.ModuleFinance}
	updated, err := f.svc.Update(ctx, tenantID, user.ID, UpdateUserRequest{Role: &role, Modules: &modules})

	require.NoError(t, err)
	assert.Equal(t, identity.RoleManager, updated.Role)
	assert.True(t, updated.CanAccessModule(identity.ModuleFinance))
	invalidated, _ := f.blacklist.IsUserTokenInvalidated(ctx, user.ID.String(), time.Now())
	assert.False(t, invalidated)
}

func TestUserService_Update_OtherTenant(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture()
	tenantID, id := uuid.New(), uuid.New()
	f.users.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, shared.ErrNotFound)

	name := "Renamed"
	_, err := f.svc.Update(ctx, tenantID, id, UpdateUserRequest{Name: &name})

	assert.True(t, errors.Is(err, shared.ErrNotFound))
	f.users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("cannot delete self", func(t *testing.T) {
		f := newUserFixture()
		id := uuid.New()
		err := f.svc.Delete(ctx, uuid.New(), id, id)
		assert.True(t, errors.Is(err, shared.ErrBusinessRule))
	})

	t.Run("deletes tenant user", func(t *testing.T) {
		f := newUserFixture()
		tenantID := uuid.New()
		user := createTestUser(t, tenantID, identity.RoleStaff)
		f.users.On("FindByIDForTenant", ctx, tenantID, user.ID).Return(user, nil)
		f.users.On("Delete", ctx, user.ID).Return(nil)

		require.NoError(t, f.svc.Delete(ctx, tenantID, uuid.New(), user.ID))
		f.users.AssertExpectations(t)
	})
}
