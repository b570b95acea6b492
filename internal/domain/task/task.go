package task

import (
	"strings"
	"time"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
)

// Status represents the progress of a task
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Priority ranks tasks
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Task is a to-do item with an owned list of subtasks
type Task struct {
	shared.TenantEntity
	Title       string     `gorm:"type:varchar(200);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      Status     `gorm:"type:varchar(20);not null;default:'todo';index" json:"status"`
	Priority    Priority   `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	AssigneeID  *uuid.UUID `gorm:"type:uuid;index" json:"assignee_id,omitempty"`
	Subtasks    []Subtask  `gorm:"foreignKey:TaskID;references:ID" json:"subtasks"`
}

// TableName returns the table name for GORM
func (Task) TableName() string {
	return "tasks"
}

// Subtask is a checklist entry of a task. Subtasks are recreated on every
// update that supplies them, so their ids are not stable.
type Subtask struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID   uuid.UUID `gorm:"type:uuid;not null;index" json:"task_id"`
	Title    string    `gorm:"type:varchar(200);not null" json:"title"`
	Done     bool      `gorm:"not null;default:false" json:"done"`
	Position int       `gorm:"not null" json:"position"`
}

// TableName returns the table name for GORM
func (Subtask) TableName() string {
	return "subtasks"
}

// SubtaskInput is a submitted subtask
type SubtaskInput struct {
	Title string
	Done  bool
}

// NewTask creates a todo task
func NewTask(tenantID, userID uuid.UUID, title string) (*Task, error) {
	t := &Task{
		TenantEntity: shared.NewTenantEntityWithCreator(tenantID, userID),
		Status:       StatusTodo,
		Priority:     PriorityMedium,
		Subtasks:     []Subtask{},
	}
	if err := t.SetTitle(title); err != nil {
		return nil, err
	}
	return t, nil
}

// SetTitle changes the title
func (t *Task) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewInvalidInputError("Task title cannot be empty")
	}
	t.Title = title
	t.Touch()
	return nil
}

// SetStatus changes the status
func (t *Task) SetStatus(s Status) error {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
	default:
		return shared.NewInvalidInputError("Unknown task status: " + string(s))
	}
	t.Status = s
	t.Touch()
	return nil
}

// SetPriority changes the priority
func (t *Task) SetPriority(p Priority) error {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return shared.NewInvalidInputError("Unknown task priority: " + string(p))
	}
	t.Priority = p
	t.Touch()
	return nil
}

// ReplaceSubtasks discards the current subtasks and builds new ones in the
// submitted order
func (t *Task) ReplaceSubtasks(inputs []SubtaskInput) error {
	subtasks := make([]Subtask, 0, len(inputs))
	for i, in := range inputs {
		title := strings.TrimSpace(in.Title)
		if title == "" {
			return shared.NewInvalidInputError("Subtask title cannot be empty")
		}
		subtasks = append(subtasks, Subtask{
			ID:       uuid.New(),
			TaskID:   t.ID,
			Title:    title,
			Done:     in.Done,
			Position: i + 1,
		})
	}
	t.Subtasks = subtasks
	t.Touch()
	return nil
}
