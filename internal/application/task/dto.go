package task

import (
	"time"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/domain/task"
	"github.com/google/uuid"
)

// ListTasksQuery filters the task list
type ListTasksQuery struct {
	common.ListQuery
	Status     string `form:"status" binding:"omitempty,oneof=todo in_progress done"`
	Priority   string `form:"priority" binding:"omitempty,oneof=low medium high"`
	AssigneeID string `form:"assignee_id" binding:"omitempty,uuid"`
}

// SubtaskRequest is a submitted checklist entry
type SubtaskRequest struct {
	Title string `json:"title" binding:"required,max=200"`
	Done  bool   `json:"done"`
}

// CreateTaskRequest represents a request to create a task
type CreateTaskRequest struct {
	Title       string           `json:"title" binding:"required,max=200"`
	Description string           `json:"description"`
	Status      string           `json:"status" binding:"omitempty,oneof=todo in_progress done"`
	Priority    string           `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time       `json:"due_date"`
	AssigneeID  *uuid.UUID       `json:"assignee_id"`
	Subtasks    []SubtaskRequest `json:"subtasks" binding:"omitempty,dive"`
}

// UpdateTaskRequest represents a partial task update. A non-nil Subtasks
// replaces the whole checklist; nil leaves it untouched.
type UpdateTaskRequest struct {
	Title       *string           `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string           `json:"description"`
	Status      *string           `json:"status" binding:"omitempty,oneof=todo in_progress done"`
	Priority    *string           `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time        `json:"due_date"`
	AssigneeID  *uuid.UUID        `json:"assignee_id"`
	Subtasks    *[]SubtaskRequest `json:"subtasks" binding:"omitempty,dive"`
}

func toSubtaskInputs(reqs []SubtaskRequest) []task.SubtaskInput {
	out := make([]task.SubtaskInput, len(reqs))
	for i, r := range reqs {
		out[i] = task.SubtaskInput{Title: r.Title, Done: r.Done}
	}
	return out
}
