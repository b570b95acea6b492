package task

import (
	"context"
	"errors"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/domain/identity"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/bizdesk/erp/internal/domain/task"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskService manages tasks and their subtasks
type TaskService struct {
	tasks     task.Repository
	users     identity.UserRepository
	publisher common.EventPublisher
	logger    *zap.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(tasks task.Repository, users identity.UserRepository, publisher common.EventPublisher, logger *zap.Logger) *TaskService {
	return &TaskService{tasks: tasks, users: users, publisher: publisher, logger: logger}
}

// List returns a page of tasks with their subtasks
func (s *TaskService) List(ctx context.Context, tenantID uuid.UUID, q ListTasksQuery) (common.Page[task.Task], error) {
	f := q.Filter().
		With("status", q.Status).
		With("priority", q.Priority).
		With("assignee_id", q.AssigneeID)
	items, total, err := s.tasks.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return common.Page[task.Task]{}, err
	}
	return common.NewPage(items, total, f), nil
}

// Get returns a task by ID
func (s *TaskService) Get(ctx context.Context, tenantID, id uuid.UUID) (*task.Task, error) {
	return s.tasks.FindByIDForTenant(ctx, tenantID, id)
}

// Create creates a task with its subtasks
func (s *TaskService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateTaskRequest) (*task.Task, error) {
	t, err := task.NewTask(tenantID, userID, req.Title)
	if err != nil {
		return nil, err
	}
	t.Description = req.Description
	t.DueDate = req.DueDate
	if req.Status != "" {
		if err := t.SetStatus(task.Status(req.Status)); err != nil {
			return nil, err
		}
	}
	if req.Priority != "" {
		if err := t.SetPriority(task.Priority(req.Priority)); err != nil {
			return nil, err
		}
	}
	if err := s.assign(ctx, tenantID, t, req.AssigneeID); err != nil {
		return nil, err
	}
	if err := t.ReplaceSubtasks(toSubtaskInputs(req.Subtasks)); err != nil {
		return nil, err
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	s.publisher.TriggerEvent(ctx, tenantID, common.EventTaskCreated, t)
	return t, nil
}

// Update applies a partial update. Supplied subtasks replace the stored ones
// in the same transaction as the header update.
func (s *TaskService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateTaskRequest) (*task.Task, error) {
	t, err := s.tasks.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		if err := t.SetTitle(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Status != nil {
		if err := t.SetStatus(task.Status(*req.Status)); err != nil {
			return nil, err
		}
	}
	if req.Priority != nil {
		if err := t.SetPriority(task.Priority(*req.Priority)); err != nil {
			return nil, err
		}
	}
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	if req.AssigneeID != nil {
		if err := s.assign(ctx, tenantID, t, req.AssigneeID); err != nil {
			return nil, err
		}
	}
	replace := req.Subtasks != nil
	if replace {
		if err := t.ReplaceSubtasks(toSubtaskInputs(*req.Subtasks)); err != nil {
			return nil, err
		}
	}
	t.Touch()
	if err := s.tasks.Save(ctx, t, replace); err != nil {
		return nil, err
	}
	s.publisher.TriggerEvent(ctx, tenantID, common.EventTaskUpdated, t)
	return t, nil
}

// Delete removes a task and its subtasks
func (s *TaskService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	t, err := s.tasks.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	return s.tasks.Delete(ctx, t.ID)
}

// assign sets the assignee after checking the user belongs to the tenant.
// uuid.Nil clears the assignment.
func (s *TaskService) assign(ctx context.Context, tenantID uuid.UUID, t *task.Task, assigneeID *uuid.UUID) error {
	if assigneeID == nil || *assigneeID == uuid.Nil {
		t.AssigneeID = nil
		return nil
	}
	if _, err := s.users.FindByIDForTenant(ctx, tenantID, *assigneeID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewInvalidInputError("Assignee is not a user of this tenant")
		}
		return err
	}
	t.AssigneeID = assigneeID
	return nil
}
