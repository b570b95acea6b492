package report

import (
	"context"
	"testing"
	"time"

	"github.com/bizdesk/erp/internal/domain/finance"
	"github.com/bizdesk/erp/internal/domain/partner"
	"github.com/bizdesk/erp/internal/domain/report"
	"github.com/bizdesk/erp/internal/infrastructure/persistence"
	"github.com/bizdesk/erp/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) SumReceivables(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockDashboardRepository) CountCustomers(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDashboardRepository) CountProducts(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDashboardRepository) CountOpenTickets(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDashboardRepository) RecentTransactions(ctx context.Context, tenantID uuid.UUID, limit int) ([]finance.Transaction, error) {
	args := m.Called(ctx, tenantID, limit)
	return args.Get(0).([]finance.Transaction), args.Error(1)
}

func (m *MockDashboardRepository) MonthlyTotals(ctx context.Context, tenantID uuid.UUID, from time.Time) ([]report.MonthlyTotal, error) {
	args := m.Called(ctx, tenantID, from)
	return args.Get(0).([]report.MonthlyTotal), args.Error(1)
}

func TestDashboardService_EmptyTenantGetsPlaceholderPoint(t *testing.T) {
	repo := new(MockDashboardRepository)
	tenantID := testutil.TestTenantID()
	now := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

	repo.On("SumReceivables", mock.Anything, tenantID).Return(decimal.Zero, nil)
	repo.On("CountCustomers", mock.Anything, tenantID).Return(int64(0), nil)
	repo.On("CountProducts", mock.Anything, tenantID).Return(int64(0), nil)
	repo.On("CountOpenTickets", mock.Anything, tenantID).Return(int64(0), nil)
	repo.On("RecentTransactions", mock.Anything, tenantID, 5).Return([]finance.Transaction{}, nil)
	repo.On("MonthlyTotals", mock.Anything, tenantID, time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)).
		Return([]report.MonthlyTotal{}, nil)

	svc := NewDashboardService(repo, zap.NewNop())
	svc.now = func() time.Time { return now }

	d, err := svc.Dashboard(context.Background(), tenantID)
	require.NoError(t, err)
	require.Len(t, d.Monthly, 1)
	assert.Equal(t, "March", d.Monthly[0].Month)
	assert.Equal(t, 2026, d.Monthly[0].Year)
	assert.True(t, d.Monthly[0].Income.IsZero())
	assert.True(t, d.Monthly[0].Expense.IsZero())
	repo.AssertExpectations(t)
}

func TestBuildSeries_SixMonthsOldestFirst(t *testing.T) {
	now := time.Date(2026, time.February, 3, 0, 0, 0, 0, time.UTC)
	totals := []report.MonthlyTotal{
		{Year: 2025, Month: 9, Type: finance.TransactionIncome, Amount: decimal.NewFromInt(100)},
		{Year: 2026, Month: 2, Type: finance.TransactionExpense, Amount: decimal.NewFromInt(40)},
		{Year: 2026, Month: 2, Type: finance.TransactionIncome, Amount: decimal.NewFromInt(60)},
		{Year: 2025, Month: 1, Type: finance.TransactionIncome, Amount: decimal.NewFromInt(999)},
	}

	series := buildSeries(totals, now)
	require.Len(t, series, report.MonthsInSeries)
	months := make([]string, len(series))
	for i, p := range series {
		months[i] = p.Month
	}
	assert.Equal(t, []string{"September", "October", "November", "December", "January", "February"}, months)
	assert.True(t, series[0].Income.Equal(decimal.NewFromInt(100)))
	assert.True(t, series[5].Income.Equal(decimal.NewFromInt(60)))
	assert.True(t, series[5].Expense.Equal(decimal.NewFromInt(40)))
	assert.True(t, series[2].Income.IsZero())
}

func TestDashboardService_WithData(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	tenantID := testutil.TestTenantID()

	owing, err := partner.NewAccount(tenantID, "C-1", "Owing", partner.AccountTypeCustomer)
	require.NoError(t, err)
	owing.Balance = decimal.NewFromInt(300)
	credit, err := partner.NewAccount(tenantID, "C-2", "In credit", partner.AccountTypeCustomer)
	require.NoError(t, err)
	credit.Balance = decimal.NewFromInt(-50)
	require.NoError(t, db.Create(owing).Error)
	require.NoError(t, db.Create(credit).Error)

	register, err := finance.NewCashRegister(tenantID, "Till", "TRY", decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, db.Create(register).Error)
	for i := 0; i < 7; i++ {
		txn, err := finance.NewTransaction(tenantID, testutil.TestUserID(), finance.TransactionIncome, decimal.NewFromInt(10), register.ID, nil)
		require.NoError(t, err)
		require.NoError(t, db.Create(txn).Error)
	}

	svc := NewDashboardService(persistence.NewGormDashboardRepository(db), zap.NewNop())
	d, err := svc.Dashboard(context.Background(), tenantID)
	require.NoError(t, err)

	assert.True(t, d.Receivables.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, int64(2), d.CustomerCount)
	assert.Len(t, d.RecentTransactions, 5)
	require.Len(t, d.Monthly, report.MonthsInSeries)
	assert.True(t, d.Monthly[report.MonthsInSeries-1].Income.Equal(decimal.NewFromInt(70)))
}
