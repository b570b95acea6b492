package identity

import (
	"context"
	"strings"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/domain/identity"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/bizdesk/erp/internal/domain/tenancy"
	"github.com/bizdesk/erp/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService manages the users of a tenant
type UserService struct {
	users     identity.UserRepository
	tenants   tenancy.TenantRepository
	packages  tenancy.PackageRepository
	blacklist auth.TokenBlacklist
	logger    *zap.Logger
}

// NewUserService creates a new UserService. blacklist may be nil.
func NewUserService(
	users identity.UserRepository,
	tenants tenancy.TenantRepository,
	packages tenancy.PackageRepository,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		users:     users,
		tenants:   tenants,
		packages:  packages,
		blacklist: blacklist,
		logger:    logger,
	}
}

// List returns the users of a tenant
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, q common.ListQuery) (common.Page[identity.User], error) {
	f := q.Filter()
	items, total, err := s.users.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return common.Page[identity.User]{}, err
	}
	return common.NewPage(items, total, f), nil
}

// Get returns one user of the tenant
func (s *UserService) Get(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	return s.users.FindByIDForTenant(ctx, tenantID, id)
}

// Create adds a user to the tenant. Emails are unique across tenants and
// the tenant's package may cap the number of users.
func (s *UserService) Create(ctx context.Context, tenantID uuid.UUID, req CreateUserRequest) (*identity.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	taken, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "A user with this email already exists")
	}
	if err := s.checkSeatLimit(ctx, tenantID); err != nil {
		return nil, err
	}

	user, err := identity.NewUser(tenantID, req.Email, req.Name, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if err := user.SetModules(req.Modules); err != nil {
		return nil, err
	}
	if req.Status != "" {
		if err := user.SetStatus(identity.UserStatus(req.Status)); err != nil {
			return nil, err
		}
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	return user, nil
}

// Update changes a user of the tenant. Deactivation and password changes
// revoke the user's outstanding tokens.
func (s *UserService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateUserRequest) (*identity.User, error) {
	user, err := s.users.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	revoke := false
	if req.Name != nil {
		if *req.Name == "" {
			return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
		}
		user.Name = *req.Name
	}
	if req.Password != nil {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, err
		}
		revoke = true
	}
	if req.Role != nil {
		if err := user.SetRole(identity.Role(*req.Role)); err != nil {
			return nil, err
		}
	}
	if req.Modules != nil {
		if err := user.SetModules(*req.Modules); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if err := user.SetStatus(identity.UserStatus(*req.Status)); err != nil {
			return nil, err
		}
		revoke = revoke || !user.IsActive()
	}
	user.Touch()

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	if revoke {
		s.revokeSessions(ctx, user.ID)
	}
	return user, nil
}

// Delete removes a user of the tenant; users cannot delete themselves
func (s *UserService) Delete(ctx context.Context, tenantID, actorID, id uuid.UUID) error {
	if actorID == id {
		return shared.NewBusinessRuleError("You cannot delete your own account")
	}
	user, err := s.users.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return err
	}
	s.revokeSessions(ctx, user.ID)
	return nil
}

func (s *UserService) checkSeatLimit(ctx context.Context, tenantID uuid.UUID) error {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return err
	}
	if tenant.PackageID == nil {
		return nil
	}
	pkg, err := s.packages.FindByID(ctx, *tenant.PackageID)
	if err != nil {
		return err
	}
	if pkg.MaxUsers <= 0 {
		return nil
	}
	f := shared.DefaultFilter()
	f.PageSize = 1
	_, count, err := s.users.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return err
	}
	if count >= int64(pkg.MaxUsers) {
		return shared.NewBusinessRuleError("User limit of the subscription package has been reached")
	}
	return nil
}

func (s *UserService) revokeSessions(ctx context.Context, userID uuid.UUID) {
	if s.blacklist == nil {
		return
	}
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), sessionRevocationTTL); err != nil {
		s.logger.Warn("Failed to revoke user sessions", zap.String("user_id", userID.String()), zap.Error(err))
	}
}
