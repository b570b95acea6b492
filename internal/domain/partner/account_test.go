package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	tenantID := uuid.New()

	t.Run("defaults to customer", func(t *testing.T) {
		a, err := NewAccount(tenantID, "c-001", "Globex", "")
		require.NoError(t, err)
		assert.Equal(t, "C-001", a.Code)
		assert.Equal(t, AccountTypeCustomer, a.Type)
		assert.True(t, a.Balance.IsZero())
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewAccount(tenantID, "X1", "Globex", AccountType("partner"))
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewAccount(tenantID, "X1", "", AccountTypeSupplier)
		assert.Error(t, err)
	})
}

func TestAccount_CanDelete(t *testing.T) {
	a, err := NewAccount(uuid.New(), "A1", "Initech", AccountTypeSupplier)
	require.NoError(t, err)
	assert.NoError(t, a.CanDelete())

	a.Balance = decimal.NewFromInt(15)
	assert.Error(t, a.CanDelete())
}
