package hr

import (
	"context"
	"strings"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/domain/hr"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmployeeService manages employees
type EmployeeService struct {
	employees hr.EmployeeRepository
	logger    *zap.Logger
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(employees hr.EmployeeRepository, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{employees: employees, logger: logger}
}

// List returns a page of employees
func (s *EmployeeService) List(ctx context.Context, tenantID uuid.UUID, q ListEmployeesQuery) (common.Page[hr.Employee], error) {
	f := q.Filter().With("status", q.Status).With("department", q.Department)
	items, total, err := s.employees.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return common.Page[hr.Employee]{}, err
	}
	return common.NewPage(items, total, f), nil
}

// Get returns an employee by ID
func (s *EmployeeService) Get(ctx context.Context, tenantID, id uuid.UUID) (*hr.Employee, error) {
	return s.employees.FindByIDForTenant(ctx, tenantID, id)
}

// Create hires an employee
func (s *EmployeeService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateEmployeeRequest) (*hr.Employee, error) {
	emp, err := hr.NewEmployee(tenantID, req.FirstName, req.LastName, req.BaseSalary)
	if err != nil {
		return nil, err
	}
	emp.CreatedBy = &userID
	emp.Email = strings.TrimSpace(req.Email)
	emp.Phone = req.Phone
	emp.Position = req.Position
	emp.Department = req.Department
	emp.HireDate = req.HireDate
	if err := s.employees.Create(ctx, emp); err != nil {
		return nil, err
	}
	s.logger.Info("Employee created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("employee_id", emp.ID.String()))
	return emp, nil
}

// Update applies a partial update
func (s *EmployeeService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateEmployeeRequest) (*hr.Employee, error) {
	emp, err := s.employees.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if req.FirstName != nil {
		emp.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		emp.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		emp.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		emp.Phone = *req.Phone
	}
	if req.Position != nil {
		emp.Position = *req.Position
	}
	if req.Department != nil {
		emp.Department = *req.Department
	}
	if req.BaseSalary != nil {
		if req.BaseSalary.IsNegative() {
			return nil, shared.NewInvalidInputError("Base salary cannot be negative")
		}
		emp.BaseSalary = *req.BaseSalary
	}
	if req.HireDate != nil {
		emp.HireDate = req.HireDate
	}
	if req.Status != nil {
		if err := emp.SetStatus(hr.EmployeeStatus(*req.Status)); err != nil {
			return nil, err
		}
	}
	emp.Touch()
	if err := s.employees.Save(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

// Delete removes an employee
func (s *EmployeeService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	emp, err := s.employees.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	return s.employees.Delete(ctx, emp.ID)
}
