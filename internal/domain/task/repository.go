package task

import (
	"context"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for task persistence
type Repository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Task, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Task, int64, error)
	Create(ctx context.Context, task *Task) error

	// Save updates the header and, when replaceSubtasks is set, deletes all
	// stored subtasks and inserts task.Subtasks in one transaction.
	Save(ctx context.Context, task *Task, replaceSubtasks bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}
