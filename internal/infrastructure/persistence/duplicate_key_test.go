package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bizdesk/erp/internal/domain/hr"
	"github.com/bizdesk/erp/internal/domain/identity"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/bizdesk/erp/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected domain error, got %v", err)
	return de.Code
}

func TestGormInvoiceRepository_Create_DuplicateNumber(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Exec("CREATE UNIQUE INDEX uq_invoices_tenant_number ON invoices (tenant_id, invoice_number)").Error)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	newInvoice := func() *trade.Invoice {
		inv, err := trade.NewInvoice(tenantID, uuid.New(), trade.InvoiceHeader{Type: trade.InvoiceTypeSales, IssueDate: time.Now()},
			[]trade.LineInput{{Description: "A", Quantity: dec("1"), UnitPrice: dec("10")}})
		require.NoError(t, err)
		inv.InvoiceNumber = "INV-20260101-AAAAAA"
		return inv
	}

	require.NoError(t, repo.Create(ctx, newInvoice()))

	err := repo.Create(ctx, newInvoice())
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	assert.Contains(t, err.Error(), "INV-20260101-AAAAAA")
}

func TestGormPayrollRepository_CreateBatch_DuplicatePeriod(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Exec("CREATE UNIQUE INDEX uq_payrolls_employee_period ON payrolls (tenant_id, employee_id, period)").Error)
	repo := NewGormPayrollRepository(db)
	ctx := context.Background()

	emp, err := hr.NewEmployee(uuid.New(), "Ada", "Lovelace", dec("1000"))
	require.NoError(t, err)

	require.NoError(t, repo.CreateBatch(ctx, []*hr.Payroll{hr.NewPayroll(emp, "2026-03")}))

	err = repo.CreateBatch(ctx, []*hr.Payroll{hr.NewPayroll(emp, "2026-03")})
	require.Error(t, err)
	assert.Equal(t, shared.CodeBusinessRule, domainCode(t, err))
	assert.Contains(t, err.Error(), "2026-03")

	require.NoError(t, repo.CreateBatch(ctx, []*hr.Payroll{hr.NewPayroll(emp, "2026-04")}))
}

func TestGormUserRepository_Create_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	first, err := identity.NewUser(uuid.New(), "dup@example.com", "First", "Password123", identity.RoleStaff)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	second, err := identity.NewUser(uuid.New(), "dup@example.com", "Second", "Password123", identity.RoleStaff)
	require.NoError(t, err)
	err = repo.Create(ctx, second)
	assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
}

func TestDuplicateKey_PostgresUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	dup := shared.NewDomainError(shared.CodeAlreadyExists, "Account with this code already exists")

	mock.ExpectExec(`INSERT INTO accounts`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_accounts_tenant_code"})
	err := db.Exec("INSERT INTO accounts (id) VALUES (?)", uuid.New()).Error
	assert.Same(t, dup, duplicateKey(err, dup))

	mock.ExpectExec(`INSERT INTO accounts`).
		WillReturnError(&pgconn.PgError{Code: "23503"})
	err = db.Exec("INSERT INTO accounts (id) VALUES (?)", uuid.New()).Error
	got := duplicateKey(err, dup)
	assert.NotSame(t, dup, got)
	assert.Error(t, got)

	assert.NoError(t, duplicateKey(nil, dup))
	require.NoError(t, mock.ExpectationsWereMet())
}
