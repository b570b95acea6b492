package finance

import (
	"context"
	"sync"
	"testing"

	"github.com/bizdesk/erp/internal/domain/finance"
	"github.com/bizdesk/erp/internal/domain/partner"
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

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) TriggerEvent(_ context.Context, _ uuid.UUID, event string, _ any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

type financeFixture struct {
	db           *gorm.DB
	tenantID     uuid.UUID
	userID       uuid.UUID
	publisher    *recordingPublisher
	registers    *CashRegisterService
	transactions *TransactionService
}

func newFinanceFixture(t *testing.T) *financeFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	f := &financeFixture{
		db:        db,
		tenantID:  testutil.TestTenantID(),
		userID:    testutil.TestUserID(),
		publisher: &recordingPublisher{},
	}
	txRepo := persistence.NewGormTransactionRepository(db)
	f.registers = NewCashRegisterService(persistence.NewGormCashRegisterRepository(db), txRepo, zap.NewNop())
	f.transactions = NewTransactionService(txRepo, persistence.NewGormTransactionScope(db), f.publisher, zap.NewNop())
	return f
}

func (f *financeFixture) seedRegister(t *testing.T, tenantID uuid.UUID, opening string) *finance.CashRegister {
	t.Helper()
	r, err := finance.NewCashRegister(tenantID, "Main till", "TRY", decimal.RequireFromString(opening))
	require.NoError(t, err)
	require.NoError(t, f.db.Create(r).Error)
	return r
}

func (f *financeFixture) seedAccount(t *testing.T, tenantID uuid.UUID, code string) *partner.Account {
	t.Helper()
	a, err := partner.NewAccount(tenantID, code, "Account "+code, partner.AccountTypeCustomer)
	require.NoError(t, err)
	require.NoError(t, f.db.Create(a).Error)
	return a
}

func (f *financeFixture) registerBalance(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	var r finance.CashRegister
	require.NoError(t, f.db.First(&r, "id = ?", id).Error)
	return r.Balance
}

func (f *financeFixture) accountBalance(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	var a partner.Account
	require.NoError(t, f.db.First(&a, "id = ?", id).Error)
	return a.Balance
}

func TestTransactionService_Create_IncomeMovesRegisterAndAccount(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()
	register := f.seedRegister(t, f.tenantID, "100")
	account := f.seedAccount(t, f.tenantID, "C-1")

	txn, err := f.transactions.Create(ctx, f.tenantID, f.userID, CreateTransactionRequest{
		Type:           "income",
		Amount:         decimal.NewFromInt(250),
		CashRegisterID: register.ID,
		AccountID:      &account.ID,
		Category:       "collection",
	})
	require.NoError(t, err)
	assert.Equal(t, finance.TransactionIncome, txn.Type)

	assert.True(t, f.registerBalance(t, register.ID).Equal(decimal.NewFromInt(350)))
	assert.True(t, f.accountBalance(t, account.ID).Equal(decimal.NewFromInt(-250)))
	assert.Equal(t, []string{"transaction.created"}, f.publisher.events)
}

func TestTransactionService_Create_ExpenseWithoutAccount(t *testing.T) {
	f := newFinanceFixture(t)
	register := f.seedRegister(t, f.tenantID, "100")

	_, err := f.transactions.Create(context.Background(), f.tenantID, f.userID, CreateTransactionRequest{
		Type:           "expense",
		Amount:         decimal.NewFromInt(40),
		CashRegisterID: register.ID,
	})
	require.NoError(t, err)
	assert.True(t, f.registerBalance(t, register.ID).Equal(decimal.NewFromInt(60)))
}

func TestTransactionService_Create_RejectsForeignAccount(t *testing.T) {
	f := newFinanceFixture(t)
	register := f.seedRegister(t, f.tenantID, "100")
	foreign := f.seedAccount(t, testutil.OtherTenantID(), "X-1")

	_, err := f.transactions.Create(context.Background(), f.tenantID, f.userID, CreateTransactionRequest{
		Type:           "income",
		Amount:         decimal.NewFromInt(10),
		CashRegisterID: register.ID,
		AccountID:      &foreign.ID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.True(t, f.registerBalance(t, register.ID).Equal(decimal.NewFromInt(100)), "register change must roll back")
	assert.True(t, f.accountBalance(t, foreign.ID).IsZero())
	var count int64
	require.NoError(t, f.db.Model(&finance.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, f.publisher.events)
}

func TestTransactionService_Create_RejectsForeignRegister(t *testing.T) {
	f := newFinanceFixture(t)
	register := f.seedRegister(t, testutil.OtherTenantID(), "100")

	_, err := f.transactions.Create(context.Background(), f.tenantID, f.userID, CreateTransactionRequest{
		Type:           "income",
		Amount:         decimal.NewFromInt(10),
		CashRegisterID: register.ID,
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.True(t, f.registerBalance(t, register.ID).Equal(decimal.NewFromInt(100)))
}

func TestTransactionService_Create_InvalidAmount(t *testing.T) {
	f := newFinanceFixture(t)
	register := f.seedRegister(t, f.tenantID, "0")

	_, err := f.transactions.Create(context.Background(), f.tenantID, f.userID, CreateTransactionRequest{
		Type:           "income",
		Amount:         decimal.Zero,
		CashRegisterID: register.ID,
	})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestTransactionService_Delete_RestoresBalances(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()
	register := f.seedRegister(t, f.tenantID, "500")
	account := f.seedAccount(t, f.tenantID, "S-1")

	txn, err := f.transactions.Create(ctx, f.tenantID, f.userID, CreateTransactionRequest{
		Type:           "expense",
		Amount:         decimal.RequireFromString("120.50"),
		CashRegisterID: register.ID,
		AccountID:      &account.ID,
	})
	require.NoError(t, err)
	assert.True(t, f.registerBalance(t, register.ID).Equal(decimal.RequireFromString("379.50")))
	assert.True(t, f.accountBalance(t, account.ID).Equal(decimal.RequireFromString("120.50")))

	require.NoError(t, f.transactions.Delete(ctx, f.tenantID, txn.ID))

	assert.True(t, f.registerBalance(t, register.ID).Equal(decimal.NewFromInt(500)))
	assert.True(t, f.accountBalance(t, account.ID).IsZero())
	_, err = f.transactions.Get(ctx, f.tenantID, txn.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, []string{"transaction.created", "transaction.deleted"}, f.publisher.events)
}

func TestTransactionService_Delete_OtherTenantTouchesNothing(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()
	register := f.seedRegister(t, f.tenantID, "0")

	txn, err := f.transactions.Create(ctx, f.tenantID, f.userID, CreateTransactionRequest{
		Type:           "income",
		Amount:         decimal.NewFromInt(75),
		CashRegisterID: register.ID,
	})
	require.NoError(t, err)

	err = f.transactions.Delete(ctx, testutil.OtherTenantID(), txn.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.True(t, f.registerBalance(t, register.ID).Equal(decimal.NewFromInt(75)))
	_, err = f.transactions.Get(ctx, f.tenantID, txn.ID)
	assert.NoError(t, err)
}

func TestTransactionService_List_FiltersByType(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()
	register := f.seedRegister(t, f.tenantID, "0")
	for _, typ := range []string{"income", "income", "expense"} {
		_, err := f.transactions.Create(ctx, f.tenantID, f.userID, CreateTransactionRequest{
			Type:           typ,
			Amount:         decimal.NewFromInt(5),
			CashRegisterID: register.ID,
		})
		require.NoError(t, err)
	}

	page, err := f.transactions.List(ctx, f.tenantID, ListTransactionsQuery{Type: "income"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	for _, txn := range page.Items {
		assert.Equal(t, finance.TransactionIncome, txn.Type)
	}
}

func TestCashRegisterService_Lifecycle(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()
	opening := decimal.NewFromInt(1000)

	register, err := f.registers.Create(ctx, f.tenantID, f.userID, CreateCashRegisterRequest{
		Name:    "Bank",
		Balance: &opening,
	})
	require.NoError(t, err)
	assert.Equal(t, "TRY", register.Currency)
	assert.True(t, register.Balance.Equal(opening))

	name := "Bank EUR"
	updated, err := f.registers.Update(ctx, f.tenantID, register.ID, UpdateCashRegisterRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Bank EUR", updated.Name)
	assert.True(t, f.registerBalance(t, register.ID).Equal(opening), "update must not touch the balance")

	_, err = f.transactions.Create(ctx, f.tenantID, f.userID, CreateTransactionRequest{
		Type:           "income",
		Amount:         decimal.NewFromInt(1),
		CashRegisterID: register.ID,
	})
	require.NoError(t, err)

	err = f.registers.Delete(ctx, f.tenantID, register.ID)
	assert.ErrorIs(t, err, shared.ErrBusinessRule)

	_, err = f.registers.Update(ctx, testutil.OtherTenantID(), register.ID, UpdateCashRegisterRequest{Name: &name})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestTransactionService_Create_InactiveRegister(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()
	register := f.seedRegister(t, f.tenantID, "0")
	inactive := false
	_, err := f.registers.Update(ctx, f.tenantID, register.ID, UpdateCashRegisterRequest{IsActive: &inactive})
	require.NoError(t, err)

	_, err = f.transactions.Create(ctx, f.tenantID, f.userID, CreateTransactionRequest{
		Type:           "income",
		Amount:         decimal.NewFromInt(1),
		CashRegisterID: register.ID,
	})
	assert.ErrorIs(t, err, shared.ErrBusinessRule)
}
