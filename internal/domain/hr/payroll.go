package hr

import (
	"regexp"
	"time"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// PayrollStatus represents the payment state of a payroll row
type PayrollStatus string

const (
	PayrollPending PayrollStatus = "pending"
	PayrollPaid    PayrollStatus = "paid"
)

// Payroll is one employee's pay for a period
type Payroll struct {
	shared.TenantEntity
	EmployeeID uuid.UUID       `gorm:"type:uuid;not null;index" json:"employee_id"`
	Period     string          `gorm:"type:varchar(7);not null;index" json:"period"`
	BaseSalary decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"base_salary"`
	Bonus      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"bonus"`
	Deduction  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"deduction"`
	NetSalary  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"net_salary"`
	Status     PayrollStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
	Employee   *Employee       `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

// TableName returns the table name for GORM
func (Payroll) TableName() string {
	return "payrolls"
}

// ValidatePeriod checks a YYYY-MM period label
func ValidatePeriod(period string) error {
	if !periodPattern.MatchString(period) {
		return shared.NewInvalidInputError("Period must be in YYYY-MM format")
	}
	return nil
}

// NewPayroll seeds a pending payroll from the employee's base salary
func NewPayroll(emp *Employee, period string) *Payroll {
	return &Payroll{
		TenantEntity: shared.NewTenantEntity(emp.TenantID),
		EmployeeID:   emp.ID,
		Period:       period,
		BaseSalary:   emp.BaseSalary,
		Bonus:        decimal.Zero,
		Deduction:    decimal.Zero,
		NetSalary:    emp.BaseSalary,
		Status:       PayrollPending,
	}
}

// Adjust sets bonus and deduction and recomputes the net salary
func (p *Payroll) Adjust(bonus, deduction decimal.Decimal) error {
	if p.Status == PayrollPaid {
		return shared.NewDomainError(shared.CodeInvalidState, "Paid payroll cannot be changed")
	}
	if bonus.IsNegative() || deduction.IsNegative() {
		return shared.NewInvalidInputError("Bonus and deduction cannot be negative")
	}
	p.Bonus = bonus
	p.Deduction = deduction
	p.NetSalary = p.BaseSalary.Add(bonus).Sub(deduction)
	p.Touch()
	return nil
}

// MarkPaid records payment
func (p *Payroll) MarkPaid() error {
	if p.Status == PayrollPaid {
		return shared.NewDomainError(shared.CodeInvalidState, "Payroll is already paid")
	}
	now := time.Now()
	p.Status = PayrollPaid
	p.PaidAt = &now
	p.Touch()
	return nil
}

// CanDelete reports whether the payroll may be removed
func (p *Payroll) CanDelete() error {
	if p.Status == PayrollPaid {
		return shared.NewDomainError(shared.CodeInvalidState, "Paid payroll cannot be deleted")
	}
	return nil
}
