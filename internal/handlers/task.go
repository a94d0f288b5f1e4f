package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/milad-sol/task-manager/internal/apperrors"
	"github.com/milad-sol/task-manager/internal/dto"
	"github.com/milad-sol/task-manager/internal/middleware"
	"github.com/milad-sol/task-manager/internal/models"
	"github.com/milad-sol/task-manager/internal/services"
	"github.com/milad-sol/task-manager/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasks returns tasks visible to the actor, with optional project,
// status, and priority filters
func (h *TaskHandler) ListTasks(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListTasksInput{
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if raw := c.Query("project"); raw != "" {
		projectID, err := parseUint(raw)
		if err != nil {
			apperrors.BadRequest(c, "Invalid project filter")
			return
		}
		input.ProjectID = &projectID
	}
	if raw := c.Query("status"); raw != "" {
		status := models.TaskStatus(raw)
		input.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := models.TaskPriority(raw)
		input.Priority = &priority
	}

	tasks, total, err := h.taskService.ListTasks(actor, input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// GetTask returns a single visible task
func (h *TaskHandler) GetTask(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(actor, id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a task in an accessible project
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		Status      string     `json:"status"`
		Priority    string     `json:"priority"`
		DueDate     *time.Time `json:"due_date"`
		ProjectID   uint64     `json:"project_id" binding:"required"`
		AssignedTo  *uint64    `json:"assigned_to_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "")
		return
	}

	task, err := h.taskService.CreateTask(actor, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		Priority:    models.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
		ProjectID:   req.ProjectID,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update. The raw body is parsed into a
// changeset so the service can see exactly which fields were submitted.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		apperrors.BadRequest(c, "")
		return
	}

	changeset, err := services.ParseTaskChangeset(body)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	task, err := h.taskService.UpdateTask(actor, id, changeset)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// AssignTask sets or clears the assignee. A null user_id unassigns.
func (h *TaskHandler) AssignTask(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		UserID *uint64 `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "")
		return
	}

	task, err := h.taskService.AssignTask(actor, id, req.UserID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task (project owner only)
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(actor, id); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
