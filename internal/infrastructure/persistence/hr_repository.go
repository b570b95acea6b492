package persistence

import (
	"context"

	"github.com/bizdesk/erp/internal/domain/hr"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var employeeListSpec = listSpec{
	sortFields:   fields("first_name", "last_name", "department", "base_salary", "hire_date"),
	defaultSort:  "last_name",
	filterFields: fields("status", "department"),
	searchFields: []string{"first_name", "last_name", "email", "position"},
}

// GormEmployeeRepository implements hr.EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByIDForTenant finds an employee by ID within a tenant
func (r *GormEmployeeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*hr.Employee, error) {
	return findForTenant[hr.Employee](ctx, r.db, tenantID, id)
}

// FindAllForTenant lists the employees of a tenant
func (r *GormEmployeeRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.Employee, int64, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	return list[hr.Employee](q, filter, employeeListSpec)
}

// FindActive returns every active employee of a tenant
func (r *GormEmployeeRepository) FindActive(ctx context.Context, tenantID uuid.UUID) ([]hr.Employee, error) {
	var out []hr.Employee
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, hr.EmployeeActive).
		Order("last_name ASC, first_name ASC").
		Find(&out).Error
	return out, err
}

// Create inserts an employee
func (r *GormEmployeeRepository) Create(ctx context.Context, employee *hr.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

// Save updates an employee
func (r *GormEmployeeRepository) Save(ctx context.Context, employee *hr.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

// Delete removes an employee
func (r *GormEmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[hr.Employee](ctx, r.db, id)
}

var payrollListSpec = listSpec{
	sortFields:   fields("period", "net_salary", "status"),
	defaultSort:  "period",
	filterFields: fields("period", "status", "employee_id"),
}

// GormPayrollRepository implements hr.PayrollRepository using GORM
type GormPayrollRepository struct {
	db *gorm.DB
}

// NewGormPayrollRepository creates a new GormPayrollRepository
func NewGormPayrollRepository(db *gorm.DB) *GormPayrollRepository {
	return &GormPayrollRepository{db: db}
}

// FindByIDForTenant loads a payroll with its employee
func (r *GormPayrollRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*hr.Payroll, error) {
	return findForTenant[hr.Payroll](ctx, r.db, tenantID, id, "Employee")
}

// FindAllForTenant lists payrolls with their employees
func (r *GormPayrollRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.Payroll, int64, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	return list[hr.Payroll](q, filter, payrollListSpec, "Employee")
}

// ExistsForPeriod reports whether payrolls were already generated for period
func (r *GormPayrollRepository) ExistsForPeriod(ctx context.Context, tenantID uuid.UUID, period string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&hr.Payroll{}).
		Where("tenant_id = ? AND period = ?", tenantID, period))
}

// CreateBatch inserts a generated payroll run
func (r *GormPayrollRepository) CreateBatch(ctx context.Context, payrolls []*hr.Payroll) error {
	if len(payrolls) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Omit(clause.Associations).CreateInBatches(payrolls, 100).Error
	return duplicateKey(err, shared.NewBusinessRuleError("Payroll for period "+payrolls[0].Period+" already exists"))
}

// Save updates a payroll
func (r *GormPayrollRepository) Save(ctx context.Context, payroll *hr.Payroll) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(payroll).Error
}

// Delete removes a payroll
func (r *GormPayrollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[hr.Payroll](ctx, r.db, id)
}

var (
	_ hr.EmployeeRepository = (*GormEmployeeRepository)(nil)
	_ hr.PayrollRepository  = (*GormPayrollRepository)(nil)
)
