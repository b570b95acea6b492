package hr

import (
	"strings"
	"time"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmployeeStatus represents the employment state
type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeInactive EmployeeStatus = "inactive"
)

// Employee is a person on the tenant's payroll
type Employee struct {
	shared.TenantEntity
	FirstName  string          `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName   string          `gorm:"type:varchar(100);not null" json:"last_name"`
	Email      string          `gorm:"type:varchar(200)" json:"email"`
	Phone      string          `gorm:"type:varchar(50)" json:"phone"`
	Position   string          `gorm:"type:varchar(100)" json:"position"`
	Department string          `gorm:"type:varchar(100)" json:"department"`
	BaseSalary decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"base_salary"`
	HireDate   *time.Time      `json:"hire_date,omitempty"`
	Status     EmployeeStatus  `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
}

// TableName returns the table name for GORM
func (Employee) TableName() string {
	return "employees"
}

// NewEmployee creates an active employee
func NewEmployee(tenantID uuid.UUID, firstName, lastName string, baseSalary decimal.Decimal) (*Employee, error) {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return nil, shared.NewInvalidInputError("First and last name are required")
	}
	if baseSalary.IsNegative() {
		return nil, shared.NewInvalidInputError("Base salary cannot be negative")
	}
	return &Employee{
		TenantEntity: shared.NewTenantEntity(tenantID),
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		BaseSalary:   baseSalary,
		Status:       EmployeeActive,
	}, nil
}

// FullName returns "First Last"
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// SetStatus changes the employment status
func (e *Employee) SetStatus(status EmployeeStatus) error {
	if status != EmployeeActive && status != EmployeeInactive {
		return shared.NewInvalidInputError("Unknown employee status: " + string(status))
	}
	e.Status = status
	e.Touch()
	return nil
}
