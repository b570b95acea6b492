package finance

import (
	"context"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/domain/finance"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CashRegisterService manages cash registers
type CashRegisterService struct {
	registers    finance.CashRegisterRepository
	transactions finance.TransactionRepository
	logger       *zap.Logger
}

// NewCashRegisterService creates a new CashRegisterService
func NewCashRegisterService(registers finance.CashRegisterRepository, transactions finance.TransactionRepository, logger *zap.Logger) *CashRegisterService {
	return &CashRegisterService{registers: registers, transactions: transactions, logger: logger}
}

// List returns a page of cash registers
func (s *CashRegisterService) List(ctx context.Context, tenantID uuid.UUID, q common.ListQuery) (common.Page[finance.CashRegister], error) {
	f := q.Filter()
	items, total, err := s.registers.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return common.Page[finance.CashRegister]{}, err
	}
	return common.NewPage(items, total, f), nil
}

// Get returns a cash register by ID
func (s *CashRegisterService) Get(ctx context.Context, tenantID, id uuid.UUID) (*finance.CashRegister, error) {
	return s.registers.FindByIDForTenant(ctx, tenantID, id)
}

// Create opens a cash register with an optional opening balance
func (s *CashRegisterService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateCashRegisterRequest) (*finance.CashRegister, error) {
	opening := decimal.Zero
	if req.Balance != nil {
		opening = *req.Balance
	}
	register, err := finance.NewCashRegister(tenantID, req.Name, req.Currency, opening)
	if err != nil {
		return nil, err
	}
	register.CreatedBy = &userID
	register.Description = req.Description
	if err := s.registers.Create(ctx, register); err != nil {
		return nil, err
	}
	return register, nil
}

// Update changes the descriptive fields of a cash register
func (s *CashRegisterService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateCashRegisterRequest) (*finance.CashRegister, error) {
	register, err := s.registers.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		register.Name = *req.Name
	}
	if req.Description != nil {
		register.Description = *req.Description
	}
	if req.IsActive != nil {
		register.IsActive = *req.IsActive
	}
	register.Touch()
	if err := s.registers.Save(ctx, register); err != nil {
		return nil, err
	}
	return register, nil
}

// Delete removes a cash register that no transaction references
func (s *CashRegisterService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	register, err := s.registers.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	count, err := s.transactions.CountByRegister(ctx, tenantID, register.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewBusinessRuleError("Cash register has transactions and cannot be deleted")
	}
	return s.registers.Delete(ctx, register.ID)
}
