package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/domain/catalog"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/bizdesk/erp/internal/infrastructure/persistence"
	"github.com/bizdesk/erp/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type productFixture struct {
	db       *gorm.DB
	svc      *ProductService
	tenantID uuid.UUID
	userID   uuid.UUID
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	svc := NewProductService(
		persistence.NewGormProductRepository(db),
		persistence.NewGormStockMovementRepository(db),
		persistence.NewGormTransactionScope(db),
		common.NopPublisher{},
		common.NopNotifier{},
		zap.NewNop(),
	)
	return &productFixture{db: db, svc: svc, tenantID: testutil.TestTenantID(), userID: testutil.TestUserID()}
}

func (f *productFixture) createProduct(t *testing.T, code string, stock int64) *catalog.Product {
	t.Helper()
	qty := decimal.NewFromInt(stock)
	p, err := f.svc.Create(context.Background(), f.tenantID, f.userID, CreateProductRequest{
		Code:  code,
		Name:  "Widget " + code,
		Stock: &qty,
	})
	require.NoError(t, err)
	return p
}

func (f *productFixture) movements(t *testing.T, productID uuid.UUID) []catalog.StockMovement {
	t.Helper()
	var rows []catalog.StockMovement
	require.NoError(t, f.db.Where("product_id = ?", productID).Order("created_at").Find(&rows).Error)
	return rows
}

func TestProductService_Create_RecordsOpeningStock(t *testing.T) {
	f := newProductFixture(t)

	p := f.createProduct(t, "w-1", 12)

	assert.Equal(t, "W-1", p.Code)
	rows := f.movements(t, p.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, catalog.MovementAdjustmentIn, rows[0].Type)
	assert.True(t, rows[0].Quantity.Equal(decimal.NewFromInt(12)))
}

func TestProductService_Create_DuplicateCode(t *testing.T) {
	f := newProductFixture(t)
	f.createProduct(t, "DUP", 0)

	_, err := f.svc.Create(context.Background(), f.tenantID, f.userID, CreateProductRequest{Code: "dup", Name: "Again"})

	assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
}

func TestProductService_AdjustStock(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture(t)
	p := f.createProduct(t, "ADJ", 5)

	res, err := f.svc.AdjustStock(ctx, f.tenantID, f.userID, p.ID, StockAdjustmentRequest{
		Type:     string(catalog.MovementAdjustmentOut),
		Quantity: decimal.NewFromInt(3),
		Note:     "damaged",
	})
	require.NoError(t, err)
	assert.True(t, res.Stock.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, "damaged", res.Movement.Note)

	stored, err := f.svc.Get(ctx, f.tenantID, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.Stock.Equal(decimal.NewFromInt(2)))
	assert.Len(t, f.movements(t, p.ID), 2)
}

func TestProductService_AdjustStock_InsufficientStockRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture(t)
	p := f.createProduct(t, "LOW", 2)

	_, err := f.svc.AdjustStock(ctx, f.tenantID, f.userID, p.ID, StockAdjustmentRequest{
		Type:     string(catalog.MovementAdjustmentOut),
		Quantity: decimal.NewFromInt(3),
	})

	assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
	stored, err := f.svc.Get(ctx, f.tenantID, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.Stock.Equal(decimal.NewFromInt(2)))
	assert.Len(t, f.movements(t, p.ID), 1)
}

func TestProductService_AdjustStock_RejectsWorkflowTypes(t *testing.T) {
	f := newProductFixture(t)
	p := f.createProduct(t, "SALE", 2)

	_, err := f.svc.AdjustStock(context.Background(), f.tenantID, f.userID, p.ID, StockAdjustmentRequest{
		Type:     string(catalog.MovementSale),
		Quantity: decimal.NewFromInt(1),
	})

	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}

func TestProductService_CrossTenant(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture(t)
	p := f.createProduct(t, "MINE", 4)
	other := testutil.OtherTenantID()

	name := "stolen"
	_, err := f.svc.Update(ctx, other, p.ID, UpdateProductRequest{Name: &name})
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	err = f.svc.Delete(ctx, other, p.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	_, err = f.svc.AdjustStock(ctx, other, f.userID, p.ID, StockAdjustmentRequest{
		Type:     string(catalog.MovementAdjustmentIn),
		Quantity: decimal.NewFromInt(1),
	})
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	stored, err := f.svc.Get(ctx, f.tenantID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget MINE", stored.Name)
	assert.True(t, stored.Stock.Equal(decimal.NewFromInt(4)))
}

func TestProductService_ListMovements(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture(t)
	p := f.createProduct(t, "TRAIL", 1)

	page, err := f.svc.ListMovements(ctx, f.tenantID, p.ID, ListMovementsQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	_, err = f.svc.ListMovements(ctx, testutil.OtherTenantID(), p.ID, ListMovementsQuery{})
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}
