package hr

import (
	"context"
	"sync"
	"testing"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/domain/hr"
	"github.com/bizdesk/erp/internal/domain/notification"
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

type recordingNotifier struct {
	titles []string
}

func (n *recordingNotifier) Notify(_ context.Context, _ uuid.UUID, _ *uuid.UUID, _ notification.Type, title, _ string) {
	n.titles = append(n.titles, title)
}

type hrFixture struct {
	db        *gorm.DB
	tenantID  uuid.UUID
	publisher *recordingPublisher
	notifier  *recordingNotifier
	employees *EmployeeService
	payrolls  *PayrollService
}

func newHRFixture(t *testing.T) *hrFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	f := &hrFixture{
		db:        db,
		tenantID:  testutil.TestTenantID(),
		publisher: &recordingPublisher{},
		notifier:  &recordingNotifier{},
	}
	empRepo := persistence.NewGormEmployeeRepository(db)
	f.employees = NewEmployeeService(empRepo, zap.NewNop())
	f.payrolls = NewPayrollService(persistence.NewGormPayrollRepository(db), empRepo,
		persistence.NewGormTransactionScope(db), f.publisher, f.notifier, zap.NewNop())
	return f
}

func (f *hrFixture) hire(t *testing.T, tenantID uuid.UUID, first string, salary int64) *hr.Employee {
	t.Helper()
	emp, err := f.employees.Create(context.Background(), tenantID, testutil.TestUserID(), CreateEmployeeRequest{
		FirstName:  first,
		LastName:   "Doe",
		BaseSalary: decimal.NewFromInt(salary),
	})
	require.NoError(t, err)
	return emp
}

func (f *hrFixture) payrollCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&hr.Payroll{}).Count(&n).Error)
	return n
}

func TestPayrollService_Generate_OneRowPerActiveEmployee(t *testing.T) {
	f := newHRFixture(t)
	ctx := context.Background()
	f.hire(t, f.tenantID, "Ann", 1000)
	f.hire(t, f.tenantID, "Bob", 2000)
	leaver := f.hire(t, f.tenantID, "Cid", 3000)
	inactive := "inactive"
	_, err := f.employees.Update(ctx, f.tenantID, leaver.ID, UpdateEmployeeRequest{Status: &inactive})
	require.NoError(t, err)
	f.hire(t, testutil.OtherTenantID(), "Dan", 9000)

	result, err := f.payrolls.Generate(ctx, f.tenantID, "2026-05")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.True(t, result.TotalNet.Equal(decimal.NewFromInt(3000)))

	page, err := f.payrolls.List(ctx, f.tenantID, ListPayrollsQuery{Period: "2026-05"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	for _, p := range page.Items {
		assert.Equal(t, hr.PayrollPending, p.Status)
		assert.True(t, p.NetSalary.Equal(p.BaseSalary))
		assert.True(t, p.Bonus.IsZero())
	}
	assert.Equal(t, []string{common.EventPayrollGenerated}, f.publisher.events)
	assert.Equal(t, []string{"Payroll generated"}, f.notifier.titles)
}

func TestPayrollService_Generate_DuplicatePeriodCreatesNothing(t *testing.T) {
	f := newHRFixture(t)
	ctx := context.Background()
	f.hire(t, f.tenantID, "Ann", 1000)

	_, err := f.payrolls.Generate(ctx, f.tenantID, "2026-05")
	require.NoError(t, err)
	before := f.payrollCount(t)

	_, err = f.payrolls.Generate(ctx, f.tenantID, "2026-05")
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrBusinessRule)
	assert.Equal(t, before, f.payrollCount(t))
	assert.Len(t, f.publisher.events, 1)
}

func TestPayrollService_Generate_NoActiveEmployees(t *testing.T) {
	f := newHRFixture(t)

	_, err := f.payrolls.Generate(context.Background(), f.tenantID, "2026-05")
	assert.ErrorIs(t, err, shared.ErrBusinessRule)
	assert.Zero(t, f.payrollCount(t))
}

func TestPayrollService_Generate_InvalidPeriod(t *testing.T) {
	f := newHRFixture(t)

	_, err := f.payrolls.Generate(context.Background(), f.tenantID, "2026-13")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestPayrollService_Update_AdjustsAndSettles(t *testing.T) {
	f := newHRFixture(t)
	ctx := context.Background()
	f.hire(t, f.tenantID, "Ann", 1000)
	_, err := f.payrolls.Generate(ctx, f.tenantID, "2026-06")
	require.NoError(t, err)
	page, err := f.payrolls.List(ctx, f.tenantID, ListPayrollsQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	id := page.Items[0].ID

	bonus, deduction := decimal.NewFromInt(250), decimal.NewFromInt(100)
	p, err := f.payrolls.Update(ctx, f.tenantID, id, UpdatePayrollRequest{Bonus: &bonus, Deduction: &deduction})
	require.NoError(t, err)
	assert.True(t, p.NetSalary.Equal(decimal.NewFromInt(1150)))

	paid := "paid"
	p, err = f.payrolls.Update(ctx, f.tenantID, id, UpdatePayrollRequest{Status: &paid})
	require.NoError(t, err)
	assert.Equal(t, hr.PayrollPaid, p.Status)
	assert.NotNil(t, p.PaidAt)

	_, err = f.payrolls.Update(ctx, f.tenantID, id, UpdatePayrollRequest{Bonus: &bonus})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.ErrorIs(t, f.payrolls.Delete(ctx, f.tenantID, id), shared.ErrInvalidState)
}

func TestPayrollService_Delete_OtherTenant(t *testing.T) {
	f := newHRFixture(t)
	ctx := context.Background()
	f.hire(t, f.tenantID, "Ann", 1000)
	_, err := f.payrolls.Generate(ctx, f.tenantID, "2026-07")
	require.NoError(t, err)
	page, err := f.payrolls.List(ctx, f.tenantID, ListPayrollsQuery{})
	require.NoError(t, err)

	err = f.payrolls.Delete(ctx, testutil.OtherTenantID(), page.Items[0].ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, int64(1), f.payrollCount(t))

	require.NoError(t, f.payrolls.Delete(ctx, f.tenantID, page.Items[0].ID))
	assert.Zero(t, f.payrollCount(t))
}

func TestEmployeeService_CrossTenantUpdate(t *testing.T) {
	f := newHRFixture(t)
	emp := f.hire(t, f.tenantID, "Ann", 1000)
	name := "Mallory"

	_, err := f.employees.Update(context.Background(), testutil.OtherTenantID(), emp.ID, UpdateEmployeeRequest{FirstName: &name})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	got, err := f.employees.Get(context.Background(), f.tenantID, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.FirstName)
}
