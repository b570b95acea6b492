package hr

import (
	"context"
	"fmt"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/domain/hr"
	"github.com/bizdesk/erp/internal/domain/notification"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PayrollService generates and settles monthly payroll runs
type PayrollService struct {
	payrolls  hr.PayrollRepository
	employees hr.EmployeeRepository
	txScope   common.TransactionScope
	publisher common.EventPublisher
	notifier  common.Notifier
	logger    *zap.Logger
}

// NewPayrollService creates a new PayrollService
func NewPayrollService(
	payrolls hr.PayrollRepository,
	employees hr.EmployeeRepository,
	txScope common.TransactionScope,
	publisher common.EventPublisher,
	notifier common.Notifier,
	logger *zap.Logger,
) *PayrollService {
	return &PayrollService{
		payrolls:  payrolls,
		employees: employees,
		txScope:   txScope,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
	}
}

// List returns a page of payrolls with their employees
func (s *PayrollService) List(ctx context.Context, tenantID uuid.UUID, q ListPayrollsQuery) (common.Page[hr.Payroll], error) {
	f := q.Filter().
		With("period", q.Period).
		With("status", q.Status).
		With("employee_id", q.EmployeeID)
	items, total, err := s.payrolls.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return common.Page[hr.Payroll]{}, err
	}
	return common.NewPage(items, total, f), nil
}

// Get returns a payroll by ID
func (s *PayrollService) Get(ctx context.Context, tenantID, id uuid.UUID) (*hr.Payroll, error) {
	return s.payrolls.FindByIDForTenant(ctx, tenantID, id)
}

// Generate creates one pending payroll per active employee for period.
// A period can be generated once; the existence check is repeated inside
// the transaction so two concurrent runs cannot both insert.
func (s *PayrollService) Generate(ctx context.Context, tenantID uuid.UUID, period string) (*GeneratePayrollResult, error) {
	if err := hr.ValidatePeriod(period); err != nil {
		return nil, err
	}
	exists, err := s.payrolls.ExistsForPeriod(ctx, tenantID, period)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, periodExistsError(period)
	}

	employees, err := s.employees.FindActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return nil, shared.NewBusinessRuleError("No active employees to generate payroll for")
	}

	rows := make([]*hr.Payroll, 0, len(employees))
	total := decimal.Zero
	for i := range employees {
		p := hr.NewPayroll(&employees[i], period)
		rows = append(rows, p)
		total = total.Add(p.NetSalary)
	}

	err = s.txScope.Execute(ctx, func(repos common.Repositories) error {
		exists, err := repos.Payrolls().ExistsForPeriod(ctx, tenantID, period)
		if err != nil {
			return err
		}
		if exists {
			return periodExistsError(period)
		}
		return repos.Payrolls().CreateBatch(ctx, rows)
	})
	if err != nil {
		return nil, err
	}

	result := &GeneratePayrollResult{Period: period, Count: len(rows), TotalNet: total}
	s.logger.Info("Payroll generated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("period", period),
		zap.Int("count", len(rows)))
	s.notifier.Notify(ctx, tenantID, nil, notification.TypeSuccess,
		"Payroll generated",
		fmt.Sprintf("Payroll for %s generated for %d employees, total %s", period, len(rows), common.FormatAmount(total, "")))
	s.publisher.TriggerEvent(ctx, tenantID, common.EventPayrollGenerated, result)
	return result, nil
}

// Update adjusts bonus and deduction or marks the payroll paid
func (s *PayrollService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdatePayrollRequest) (*hr.Payroll, error) {
	p, err := s.payrolls.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if p.Status == hr.PayrollPaid {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Paid payroll cannot be changed")
	}
	if req.Bonus != nil || req.Deduction != nil {
		bonus, deduction := p.Bonus, p.Deduction
		if req.Bonus != nil {
			bonus = *req.Bonus
		}
		if req.Deduction != nil {
			deduction = *req.Deduction
		}
		if err := p.Adjust(bonus, deduction); err != nil {
			return nil, err
		}
	}
	if req.Status != nil && hr.PayrollStatus(*req.Status) == hr.PayrollPaid {
		if err := p.MarkPaid(); err != nil {
			return nil, err
		}
	}
	if err := s.payrolls.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a pending payroll
func (s *PayrollService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	p, err := s.payrolls.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := p.CanDelete(); err != nil {
		return err
	}
	return s.payrolls.Delete(ctx, p.ID)
}

func periodExistsError(period string) error {
	return shared.NewBusinessRuleError("Payroll for period " + period + " already exists")
}
