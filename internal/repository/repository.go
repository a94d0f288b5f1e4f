package repository

import (
	"github.com/milad-sol/task-manager/internal/authz"
	"github.com/milad-sol/task-manager/internal/models"
)

// ProjectRepository defines the interface for project data access. Lookup
// methods take the acting user so that visibility and manageability scoping
// happens inside the query, never as a post-filter.
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindVisibleByID finds a project the actor may view. Invisible and
	// absent are both record-not-found.
	FindVisibleByID(actor authz.Actor, id uint64, preload ...string) (*models.Project, error)

	// FindManageableByID finds a project the actor may structurally mutate
	// (membership management). Not-owned and absent are both
	// record-not-found.
	FindManageableByID(actor authz.Actor, id uint64, preload ...string) (*models.Project, error)

	// ListVisible lists projects the actor may view, newest first.
	ListVisible(actor authz.Actor, page, pageSize int) ([]models.Project, int64, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete deletes a project, its memberships, and its tasks atomically
	Delete(id uint64) error

	// SetMembers applies membership additions and removals as one atomic,
	// idempotent update of the membership set.
	SetMembers(projectID uint64, additions, removals []uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Actor     authz.Actor
	ProjectID *uint64
	Status    *models.TaskStatus
	Priority  *models.TaskPriority
	Page      int
	PageSize  int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindVisibleByID finds a task the actor may view, with optional
	// preloading. Invisible and absent are both record-not-found.
	FindVisibleByID(actor authz.Actor, id uint64, preload ...string) (*models.Task, error)

	// FindByID finds a task by primary key with no visibility scope. For
	// reloads after an authorized mutation, where the mutation itself may
	// have moved the task out of the actor's scope.
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves visible tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error

	// UpdateAssignee sets or clears the task's assignee. When target is
	// non-nil, assignment eligibility (project owner or current member) is
	// re-read and the write applied in the same transaction, so a
	// concurrent member removal cannot half-apply.
	UpdateAssignee(taskID, projectID uint64, target *uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// CountByIDs counts how many of the given user IDs exist
	CountByIDs(ids []uint64) (int64, error)

	// Ensure inserts the user mirror row if it does not exist yet
	Ensure(user *models.User) error
}
