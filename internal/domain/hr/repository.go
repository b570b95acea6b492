package hr

import (
	"context"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
)

// EmployeeRepository defines the interface for employee persistence
type EmployeeRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Employee, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Employee, int64, error)
	FindActive(ctx context.Context, tenantID uuid.UUID) ([]Employee, error)
	Create(ctx context.Context, employee *Employee) error
	Save(ctx context.Context, employee *Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PayrollRepository defines the interface for payroll persistence
type PayrollRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Payroll, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Payroll, int64, error)
	ExistsForPeriod(ctx context.Context, tenantID uuid.UUID, period string) (bool, error)
	CreateBatch(ctx context.Context, payrolls []*Payroll) error
	Save(ctx context.Context, payroll *Payroll) error
	Delete(ctx context.Context, id uuid.UUID) error
}
