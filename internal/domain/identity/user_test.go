package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	BcryptCost = bcrypt.MinCost
}

func TestNewUser(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates active user with hashed password", func(t *testing.T) {
		u, err := NewUser(tenantID, " Alice@Example.com ", "Alice", "s3cretpass", RoleStaff)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", u.Email)
		assert.Equal(t, tenantID, u.TenantID)
		assert.True(t, u.IsActive())
		assert.NotEqual(t, "s3cretpass", u.PasswordHash)
		assert.True(t, u.VerifyPassword("s3cretpass"))
		assert.False(t, u.VerifyPassword("wrong-pass"))
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewUser(tenantID, "not-an-email", "Alice", "s3cretpass", RoleStaff)
		assert.Error(t, err)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser(tenantID, "a@b.io", "Alice", "short", RoleStaff)
		assert.Error(t, err)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewUser(tenantID, "a@b.io", "Alice", "s3cretpass", Role("owner"))
		assert.Error(t, err)
	})
}

func TestUser_Modules(t *testing.T) {
	u, err := NewUser(uuid.New(), "bob@example.com", "Bob", "s3cretpass", RoleStaff)
	require.NoError(t, err)

	require.NoError(t, u.SetModules([]string{ModuleInvoices, ModuleInvoices, ModuleFinance}))
	assert.Len(t, u.AllowedModules, 2)
	assert.True(t, u.CanAccessModule(ModuleInvoices))
	assert.False(t, u.CanAccessModule(ModuleHR))

	assert.Error(t, u.SetModules([]string{"casino"}))

	require.NoError(t, u.SetRole(RoleAdmin))
	assert.True(t, u.CanAccessModule(ModuleHR))
}
