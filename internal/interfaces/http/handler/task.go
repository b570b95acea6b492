package handler

import (
	"github.com/bizdesk/erp/internal/application/task"
	"github.com/gin-gonic/gin"
)

// TaskHandler handles tasks and their subtasks
type TaskHandler struct {
	BaseHandler
	taskService *task.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *task.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// List returns a filtered page of tasks
// GET /tasks
func (h *TaskHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q task.ListTasksQuery
	if !h.bindQuery(c, &q) {
		return
	}

	result, err := h.taskService.List(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// Get returns a task with its subtasks
// GET /tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	t, err := h.taskService.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Create adds a task
// POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	var req task.CreateTaskRequest
	if !h.bindJSON(c, &req) {
		return
	}

	t, err := h.taskService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, t)
}

// Update changes a task. Subtasks are replaced when present in the body.
// PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req task.UpdateTaskRequest
	if !h.bindJSON(c, &req) {
		return
	}

	t, err := h.taskService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Delete removes a task and its subtasks
// DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
