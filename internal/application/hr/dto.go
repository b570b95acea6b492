package hr

import (
	"time"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/shopspring/decimal"
)

// ListEmployeesQuery filters the employee list
type ListEmployeesQuery struct {
	common.ListQuery
	Status     string `form:"status" binding:"omitempty,oneof=active inactive"`
	Department string `form:"department" binding:"omitempty,max=100"`
}

// CreateEmployeeRequest represents a request to hire an employee
type CreateEmployeeRequest struct {
	FirstName  string          `json:"first_name" binding:"required,max=100"`
	LastName   string          `json:"last_name" binding:"required,max=100"`
	Email      string          `json:"email" binding:"omitempty,email"`
	Phone      string          `json:"phone" binding:"max=50"`
	Position   string          `json:"position" binding:"max=100"`
	Department string          `json:"department" binding:"max=100"`
	BaseSalary decimal.Decimal `json:"base_salary" binding:"decimal_gte0"`
	HireDate   *time.Time      `json:"hire_date"`
}

// UpdateEmployeeRequest represents a partial employee update
type UpdateEmployeeRequest struct {
	FirstName  *string          `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName   *string          `json:"last_name" binding:"omitempty,min=1,max=100"`
	Email      *string          `json:"email" binding:"omitempty,email"`
	Phone      *string          `json:"phone" binding:"omitempty,max=50"`
	Position   *string          `json:"position" binding:"omitempty,max=100"`
	Department *string          `json:"department" binding:"omitempty,max=100"`
	BaseSalary *decimal.Decimal `json:"base_salary" binding:"omitempty,decimal_gte0"`
	HireDate   *time.Time       `json:"hire_date"`
	Status     *string          `json:"status" binding:"omitempty,oneof=active inactive"`
}

// GeneratePayrollRequest names the period of a payroll run
type GeneratePayrollRequest struct {
	Period string `json:"period" binding:"required,len=7"`
}

// ListPayrollsQuery filters the payroll list
type ListPayrollsQuery struct {
	common.ListQuery
	Period     string `form:"period" binding:"omitempty,len=7"`
	Status     string `form:"status" binding:"omitempty,oneof=pending paid"`
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
}

// UpdatePayrollRequest adjusts or settles a payroll
type UpdatePayrollRequest struct {
	Bonus     *decimal.Decimal `json:"bonus"`
	Deduction *decimal.Decimal `json:"deduction"`
	Status    *string          `json:"status" binding:"omitempty,oneof=pending paid"`
}

// GeneratePayrollResult summarizes a payroll run
type GeneratePayrollResult struct {
	Period   string          `json:"period"`
	Count    int             `json:"count"`
	TotalNet decimal.Decimal `json:"total_net"`
}
