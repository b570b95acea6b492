package handler

import (
	"github.com/bizdesk/erp/internal/application/hr"
	"github.com/gin-gonic/gin"
)

// HRHandler handles employees and payroll
type HRHandler struct {
	BaseHandler
	employeeService *hr.EmployeeService
	payrollService  *hr.PayrollService
}

// NewHRHandler creates a new HRHandler
func NewHRHandler(employeeService *hr.EmployeeService, payrollService *hr.PayrollService) *HRHandler {
	return &HRHandler{
		employeeService: employeeService,
		payrollService:  payrollService,
	}
}

// ListEmployees returns a filtered page of employees
// GET /employees
func (h *HRHandler) ListEmployees(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q hr.ListEmployeesQuery
	if !h.bindQuery(c, &q) {
		return
	}

	result, err := h.employeeService.List(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// GetEmployee returns an employee
// GET /employees/:id
func (h *HRHandler) GetEmployee(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	employee, err := h.employeeService.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// CreateEmployee hires an employee
// POST /employees
func (h *HRHandler) CreateEmployee(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	var req hr.CreateEmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	employee, err := h.employeeService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, employee)
}

// UpdateEmployee changes employee details
// PUT /employees/:id
func (h *HRHandler) UpdateEmployee(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req hr.UpdateEmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	employee, err := h.employeeService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// DeleteEmployee removes an employee
// DELETE /employees/:id
func (h *HRHandler) DeleteEmployee(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.employeeService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListPayrolls returns a filtered page of payroll rows
// GET /payrolls
func (h *HRHandler) ListPayrolls(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q hr.ListPayrollsQuery
	if !h.bindQuery(c, &q) {
		return
	}

	result, err := h.payrollService.List(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// GetPayroll returns a payroll row
// GET /payrolls/:id
func (h *HRHandler) GetPayroll(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	payroll, err := h.payrollService.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payroll)
}

// GeneratePayroll creates one row per active employee for a period
// POST /payrolls/generate
func (h *HRHandler) GeneratePayroll(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req hr.GeneratePayrollRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.payrollService.Generate(c.Request.Context(), tenantID, req.Period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// UpdatePayroll changes bonus, deduction or status
// PATCH /payrolls/:id
func (h *HRHandler) UpdatePayroll(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req hr.UpdatePayrollRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payroll, err := h.payrollService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payroll)
}

// DeletePayroll removes a pending payroll row
// DELETE /payrolls/:id
func (h *HRHandler) DeletePayroll(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.payrollService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
