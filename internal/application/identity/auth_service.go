package identity

import (
	"context"
	"errors"
	"time"

	"github.com/bizdesk/erp/internal/domain/identity"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/bizdesk/erp/internal/domain/tenancy"
	"github.com/bizdesk/erp/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errInvalidCredentials = shared.NewDomainError(shared.CodeUnauthorized, "Invalid email or password")

// AuthService handles authentication operations
type AuthService struct {
	users      identity.UserRepository
	tenants    tenancy.TenantRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service. blacklist may be
// nil, in which case logout cannot revoke tokens early.
func NewAuthService(
	users identity.UserRepository,
	tenants tenancy.TenantRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		tenants:    tenants,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Login authenticates a user and returns a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Info("Login for unknown email")
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, errInvalidCredentials
	}
	if err := s.checkAccess(ctx, user); err != nil {
		return nil, err
	}

	result, err := s.issue(user, 0)
	if err != nil {
		return nil, err
	}

	user.RecordLogin()
	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Error("Failed to record login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", user.TenantID.String()))
	return result, nil
}

// Refresh exchanges a refresh token for a new pair. The user is re-read so
// role and module changes take effect.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		s.logger.Info("Refresh token rejected", zap.Error(err))
		if errors.Is(err, auth.ErrMaxRefreshExceeded) {
			return nil, shared.NewDomainError(shared.CodeUnauthorized, "Session has expired, please log in again")
		}
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "Invalid refresh token")
	}

	if revoked, err := s.isRevoked(ctx, claims); err != nil {
		return nil, err
	} else if revoked {
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "Refresh token has been revoked")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "Invalid refresh token")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeUnauthorized, "User no longer exists")
		}
		return nil, err
	}
	if err := s.checkAccess(ctx, user); err != nil {
		return nil, err
	}

	result, err := s.issue(user, claims.RefreshCount+1)
	if err != nil {
		if errors.Is(err, auth.ErrMaxRefreshExceeded) {
			return nil, shared.NewDomainError(shared.CodeUnauthorized, "Session has expired, please log in again")
		}
		return nil, err
	}

	if s.blacklist != nil && claims.ID != "" {
		if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			s.logger.Warn("Failed to revoke used refresh token", zap.Error(err))
		}
	}
	return result, nil
}

// Logout revokes the access token and, when supplied, the refresh token.
// Without a blacklist the tokens stay valid until they expire.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims, refreshToken string) error {
	if s.blacklist == nil {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		return err
	}
	if refreshToken == "" {
		return nil
	}
	refresh, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil || refresh.UserID != claims.UserID {
		return nil
	}
	return s.blacklist.AddToBlacklist(ctx, refresh.ID, refresh.GetRemainingTTL())
}

// Me returns the profile of the authenticated user
func (s *AuthService) Me(ctx context.Context, tenantID, userID uuid.UUID) (*identity.User, error) {
	return s.users.FindByIDForTenant(ctx, tenantID, userID)
}

// checkAccess rejects inactive users and users of suspended tenants
func (s *AuthService) checkAccess(ctx context.Context, user *identity.User) error {
	if !user.IsActive() {
		return shared.NewDomainError(shared.CodeForbidden, "User account is inactive")
	}
	tenant, err := s.tenants.FindByID(ctx, user.TenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError(shared.CodeForbidden, "Tenant no longer exists")
		}
		return err
	}
	if !tenant.IsAccessible() {
		return shared.NewDomainError(shared.CodeForbidden, "Tenant subscription is "+string(tenant.SubscriptionStatus))
	}
	return nil
}

func (s *AuthService) isRevoked(ctx context.Context, claims *auth.Claims) (bool, error) {
	if s.blacklist == nil {
		return false, nil
	}
	if claims.ID != "" {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil || revoked {
			return revoked, err
		}
	}
	return s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
}

func (s *AuthService) issue(user *identity.User, refreshCount int) (*LoginResult, error) {
	modules := []string(user.AllowedModules)
	if user.Role == identity.RoleAdmin || user.Role == identity.RoleSuperAdmin {
		modules = identity.AllModules
	}
	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID:     user.TenantID,
		UserID:       user.ID,
		Email:        user.Email,
		Role:         string(user.Role),
		Modules:      modules,
		RefreshCount: refreshCount,
	})
	if err != nil {
		return nil, err
	}
	return &LoginResult{TokenPair: pair, User: toUserInfo(user, modules)}, nil
}

func toUserInfo(u *identity.User, modules []string) UserInfo {
	return UserInfo{
		ID:       u.ID.String(),
		TenantID: u.TenantID.String(),
		Email:    u.Email,
		Name:     u.Name,
		Role:     string(u.Role),
		Modules:  modules,
	}
}

// sessionRevocationTTL bounds how long a user-wide revocation is kept; it
// must outlive the longest refresh token.
const sessionRevocationTTL = 8 * 24 * time.Hour
