package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/milad-sol/task-manager/internal/apperrors"
	"github.com/milad-sol/task-manager/internal/authz"
	"github.com/milad-sol/task-manager/internal/models"
	"github.com/milad-sol/task-manager/internal/repository"
)

// taskPreloads are the relations authorization and response building need.
var taskPreloads = []string{"Project", "Project.Members", "CreatedBy", "AssignedTo"}

// TaskService handles task business logic. Every lookup goes through the
// task visibility scope; permission failures on a visible task surface as
// forbidden, deliberately asymmetric with project membership management.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     *time.Time
	ProjectID   uint64
	AssignedTo  *uint64
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	ProjectID *uint64
	Status    *models.TaskStatus
	Priority  *models.TaskPriority
	Page      int
	PageSize  int
}

// ListTasks returns tasks visible to the actor with optional filters.
func (s *TaskService) ListTasks(actor authz.Actor, input ListTasksInput) ([]models.Task, int64, error) {
	if input.Status != nil && !models.ValidTaskStatus(*input.Status) {
		return nil, 0, apperrors.Validation("Invalid status filter")
	}
	if input.Priority != nil && !models.ValidTaskPriority(*input.Priority) {
		return nil, 0, apperrors.Validation("Invalid priority filter")
	}

	filter := repository.TaskFilter{
		Actor:     actor,
		ProjectID: input.ProjectID,
		Status:    input.Status,
		Priority:  input.Priority,
		Page:      input.Page,
		PageSize:  input.PageSize,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a visible task with related data.
func (s *TaskService) GetTask(actor authz.Actor, id uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindVisibleByID(actor, id, taskPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Task not found")
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTask creates a task in a project the actor can access. The creator
// is always the actor; an initial assignee, if given, must be eligible.
func (s *TaskService) CreateTask(actor authz.Actor, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.Validation("Title is required")
	}
	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	} else if !models.ValidTaskStatus(input.Status) {
		return nil, apperrors.Validation("Invalid status")
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	} else if !models.ValidTaskPriority(input.Priority) {
		return nil, apperrors.Validation("Invalid priority")
	}

	// The create rule (owner or member of the target project, superuser
	// bypass) coincides with project visibility, so an inaccessible project
	// is simply not found.
	project, err := s.projectRepo.FindVisibleByID(actor, input.ProjectID, "Members")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Project not found")
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if input.AssignedTo != nil && !authz.AssigneeEligible(project, *input.AssignedTo) {
		return nil, apperrors.Validation("User is not the project owner or a member of this project")
	}

	task := &models.Task{
		Title:        input.Title,
		Description:  input.Description,
		Status:       input.Status,
		Priority:     input.Priority,
		ProjectID:    project.ID,
		CreatedByID:  actor.ID,
		AssignedToID: input.AssignedTo,
	}
	task.DueDate = input.DueDate

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindVisibleByID(actor, task.ID, taskPreloads...)
}

// UpdateTask applies a changeset to a visible task. The full-edit rule is
// evaluated first; an assignee whose changeset is exactly {status} passes
// the narrower status-only allowance.
func (s *TaskService) UpdateTask(actor authz.Actor, id uint64, changeset *TaskChangeset) (*models.Task, error) {
	task, err := s.GetTask(actor, id)
	if err != nil {
		return nil, err
	}

	if len(changeset.Fields()) == 0 {
		return nil, apperrors.Validation("No fields to update")
	}
	if field, ok := changeset.Immutable(); ok {
		return nil, apperrors.Validation(fmt.Sprintf("Field %q cannot be changed", field))
	}

	if !authz.TaskEdit(actor, task, changeset.Fields()) {
		return nil, apperrors.Forbidden("You do not have permission to modify this task")
	}

	if changeset.Title != nil {
		if strings.TrimSpace(*changeset.Title) == "" {
			return nil, apperrors.Validation("Title cannot be empty")
		}
		task.Title = *changeset.Title
	}
	if changeset.Description != nil {
		task.Description = *changeset.Description
	}
	if changeset.Status != nil {
		if !models.ValidTaskStatus(*changeset.Status) {
			return nil, apperrors.Validation("Invalid status")
		}
		task.Status = *changeset.Status
	}
	if changeset.Priority != nil {
		if !models.ValidTaskPriority(*changeset.Priority) {
			return nil, apperrors.Validation("Invalid priority")
		}
		task.Priority = *changeset.Priority
	}
	if changeset.DueDateSet {
		task.DueDate = changeset.DueDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindVisibleByID(actor, task.ID, taskPreloads...)
}

// AssignTask sets or clears the assignee of a visible task. A non-nil
// target must currently be the project owner or a member; an ineligible
// target is a validation failure, not a missing user.
func (s *TaskService) AssignTask(actor authz.Actor, id uint64, target *uint64) (*models.Task, error) {
	task, err := s.GetTask(actor, id)
	if err != nil {
		return nil, err
	}

	if !authz.Task(actor, task, authz.ActionAssign) {
		return nil, apperrors.Forbidden("Only the project owner, task creator, or current assignee can change the assignment")
	}

	if err := s.taskRepo.UpdateAssignee(task.ID, task.ProjectID, target); err != nil {
		if errors.Is(err, repository.ErrIneligibleAssignee) {
			return nil, apperrors.Validation("User is not the project owner or a member of this project")
		}
		return nil, fmt.Errorf("failed to update assignment: %w", err)
	}

	// Reload by primary key. An assignee who is no longer a member loses
	// visibility the moment they unassign themselves, but the authorized
	// write still returns the updated task.
	updated, err := s.taskRepo.FindByID(task.ID, taskPreloads...)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	return updated, nil
}

// DeleteTask removes a visible task. Only the project owner may delete;
// creators cannot, deliberately narrower than the edit rule.
func (s *TaskService) DeleteTask(actor authz.Actor, id uint64) error {
	task, err := s.GetTask(actor, id)
	if err != nil {
		return err
	}

	if !authz.Task(actor, task, authz.ActionDelete) {
		return apperrors.Forbidden("Only the project owner can delete this task")
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}
