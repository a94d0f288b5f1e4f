package repository

import (
	"gorm.io/gorm"

	"github.com/milad-sol/task-manager/internal/authz"
	"github.com/milad-sol/task-manager/internal/database"
	"github.com/milad-sol/task-manager/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindVisibleByID finds a task within the actor's visibility scope
func (r *GormTaskRepository) FindVisibleByID(actor authz.Actor, id uint64, preload ...string) (*models.Task, error) {
	query := r.db.Scopes(database.VisibleTasks(actor))
	for _, p := range preload {
		query = query.Preload(p)
	}

	var task models.Task
	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByID finds a task by primary key without scoping
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	var task models.Task
	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves visible tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	query := r.db.Model(&models.Task{}).Scopes(database.VisibleTasks(filter.Actor))

	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	var tasks []models.Task
	if err := listQuery.Preload("CreatedBy").Preload("AssignedTo").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Omit("Project", "CreatedBy", "AssignedTo").Save(task).Error
}

// Delete soft deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// UpdateAssignee sets or clears the task's assignee. Eligibility is checked
// against current membership inside the same transaction as the write.
func (r *GormTaskRepository) UpdateAssignee(taskID, projectID uint64, target *uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if target != nil {
			var count int64
			err := tx.Table("projects").
				Where("projects.id = ? AND projects.deleted_at IS NULL", projectID).
				Where(`projects.owner_id = ? OR EXISTS (
					SELECT 1 FROM project_members
					WHERE project_members.project_id = projects.id
					AND project_members.user_id = ?)`, *target, *target).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count == 0 {
				return ErrIneligibleAssignee
			}
		}

		return tx.Model(&models.Task{}).
			Where("id = ?", taskID).
			Update("assigned_to_id", target).Error
	})
}
