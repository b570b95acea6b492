package identity

import (
	"context"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID regardless of tenant (login/refresh paths)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByIDForTenant finds a user owned by the tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email across all tenants
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAllForTenant lists users of a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]User, int64, error)

	// ExistsByEmail checks if an email is already taken
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	Create(ctx context.Context, user *User) error
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
