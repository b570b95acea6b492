package persistence

import (
	"context"
	"fmt"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/bizdesk/erp/internal/domain/task"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var taskListSpec = listSpec{
	sortFields:   fields("title", "status", "priority", "due_date"),
	filterFields: fields("status", "priority", "assignee_id"),
	searchFields: []string{"title", "description"},
}

// GormTaskRepository implements task.Repository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// FindByIDForTenant loads a task with its subtasks in position order
func (r *GormTaskRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*task.Task, error) {
	return findForTenant[task.Task](ctx, r.db, tenantID, id, "Subtasks")
}

// FindAllForTenant lists tasks with their subtasks
func (r *GormTaskRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]task.Task, int64, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	return list[task.Task](q, filter, taskListSpec, "Subtasks")
}

// Create inserts a task and its subtasks
func (r *GormTaskRepository) Create(ctx context.Context, t *task.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// Save updates the header and optionally replaces the subtask collection
func (r *GormTaskRepository) Save(ctx context.Context, t *task.Task, replaceSubtasks bool) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(t).Error; err != nil {
			return fmt.Errorf("save task: %w", err)
		}
		if !replaceSubtasks {
			return nil
		}
		if err := tx.Where("task_id = ?", t.ID).Delete(&task.Subtask{}).Error; err != nil {
			return fmt.Errorf("delete subtasks: %w", err)
		}
		if len(t.Subtasks) == 0 {
			return nil
		}
		return tx.Create(&t.Subtasks).Error
	})
}

// Delete removes the subtasks and the task
func (r *GormTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&task.Subtask{}).Error; err != nil {
			return fmt.Errorf("delete subtasks: %w", err)
		}
		return deleteByID[task.Task](ctx, tx, id)
	})
}

var _ task.Repository = (*GormTaskRepository)(nil)
