//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/bizdesk/erp/internal/domain/catalog"
	"github.com/bizdesk/erp/internal/domain/partner"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/bizdesk/erp/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantIsolation_Products(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()
	tenantA := tdb.CreateTenant("Tenant A", "tenant-a")
	tenantB := tdb.CreateTenant("Tenant B", "tenant-b")
	repo := persistence.NewGormProductRepository(tdb.DB)

	productA, err := catalog.NewProduct(tenantA.ID, "SKU-1", "Widget", "pcs")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, productA))

	t.Run("owner sees the product", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, tenantA.ID, productA.ID)
		require.NoError(t, err)
		assert.Equal(t, "SKU-1", found.Code)
	})

	t.Run("other tenant gets not found", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, tenantB.ID, productA.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("listing is scoped", func(t *testing.T) {
		items, total, err := repo.FindAllForTenant(ctx, tenantB.ID, shared.Filter{Page: 1, PageSize: 20})
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.Zero(t, total)
	})

	t.Run("codes are unique per tenant only", func(t *testing.T) {
		productB, err := catalog.NewProduct(tenantB.ID, "SKU-1", "Widget", "pcs")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, productB))

		exists, err := repo.ExistsByCode(ctx, tenantB.ID, "SKU-1")
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

func TestTenantIsolation_TenantDeleteCascades(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()
	tenant := tdb.CreateTenant("Doomed", "doomed")
	accounts := persistence.NewGormAccountRepository(tdb.DB)

	account, err := partner.NewAccount(tenant.ID, "C-1", "Acme", partner.AccountTypeCustomer)
	require.NoError(t, err)
	require.NoError(t, accounts.Create(ctx, account))

	require.NoError(t, persistence.NewGormTenantRepository(tdb.DB).Delete(ctx, tenant.ID))

	_, err = accounts.FindByIDForTenant(ctx, tenant.ID, account.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
