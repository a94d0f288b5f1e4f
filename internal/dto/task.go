package dto

import (
	"time"

	"github.com/milad-sol/task-manager/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID           uint64              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Status       models.TaskStatus   `json:"status"`
	Priority     models.TaskPriority `json:"priority"`
	DueDate      *time.Time          `json:"due_date"`
	ProjectID    uint64              `json:"project_id"`
	CreatedByID  uint64              `json:"created_by_id"`
	AssignedToID *uint64             `json:"assigned_to_id"`
	CreatedBy    *UserDTO            `json:"created_by,omitempty"`
	AssignedTo   *UserDTO            `json:"assigned_to,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Status:       task.Status,
		Priority:     task.Priority,
		DueDate:      task.DueDate,
		ProjectID:    task.ProjectID,
		CreatedByID:  task.CreatedByID,
		AssignedToID: task.AssignedToID,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}

	// Include creator if preloaded
	if task.CreatedBy.ID != 0 {
		creator := ToUserDTO(task.CreatedBy)
		dto.CreatedBy = &creator
	}

	// Include assignee if preloaded
	if task.AssignedTo != nil && task.AssignedTo.ID != 0 {
		assignee := ToUserDTO(*task.AssignedTo)
		dto.AssignedTo = &assignee
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}

// ProfileResponse is the /me payload: the user plus their visible projects.
type ProfileResponse struct {
	User     UserDTO      `json:"user"`
	Projects []ProjectDTO `json:"projects"`
}

// ToProfileResponse builds the profile payload.
func ToProfileResponse(user models.User, projects []models.Project) ProfileResponse {
	projectDTOs := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		projectDTOs[i] = ToProjectDTO(project)
	}

	return ProfileResponse{
		User:     ToUserDTO(user),
		Projects: projectDTOs,
	}
}
