package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/milad-sol/task-manager/internal/authz"
	"github.com/milad-sol/task-manager/internal/database"
	"github.com/milad-sol/task-manager/internal/models"
)

// ErrIneligibleAssignee is returned when an assignment target is not the
// project owner or a current member.
var ErrIneligibleAssignee = errors.New("repository: user is not the project owner or a member")

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindVisibleByID finds a project within the actor's visibility scope
func (r *GormProjectRepository) FindVisibleByID(actor authz.Actor, id uint64, preload ...string) (*models.Project, error) {
	return r.findByID(database.VisibleProjects(actor), id, preload)
}

// FindManageableByID finds a project within the actor's manageability scope
func (r *GormProjectRepository) FindManageableByID(actor authz.Actor, id uint64, preload ...string) (*models.Project, error) {
	return r.findByID(database.ManageableProjects(actor), id, preload)
}

func (r *GormProjectRepository) findByID(scope func(*gorm.DB) *gorm.DB, id uint64, preload []string) (*models.Project, error) {
	query := r.db.Scopes(scope)
	for _, p := range preload {
		query = query.Preload(p)
	}

	var project models.Project
	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListVisible lists projects the actor may view, newest first
func (r *GormProjectRepository) ListVisible(actor authz.Actor, page, pageSize int) ([]models.Project, int64, error) {
	query := r.db.Model(&models.Project{}).Scopes(database.VisibleProjects(actor))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("projects.created_at DESC")
	if page > 0 && pageSize > 0 {
		listQuery = listQuery.Offset((page - 1) * pageSize).Limit(pageSize)
	}

	var projects []models.Project
	if err := listQuery.Preload("Owner").Preload("Members").Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Omit("Members", "Owner").Save(project).Error
}

// Delete deletes a project and all related data in a transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Delete all tasks in the project
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		// Clear the membership set
		if err := tx.Exec("DELETE FROM project_members WHERE project_id = ?", id).Error; err != nil {
			return err
		}

		// Delete the project
		if err := tx.Delete(&models.Project{}, id).Error; err != nil {
			return err
		}

		return nil
	})
}

// SetMembers applies additions and removals as one atomic update. Adding an
// existing member or removing a non-member is a no-op.
func (r *GormProjectRepository) SetMembers(projectID uint64, additions, removals []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		project := models.Project{ID: projectID}

		if len(additions) > 0 {
			users := usersByID(additions)
			if err := tx.Model(&project).Association("Members").Append(&users); err != nil {
				return err
			}
		}

		if len(removals) > 0 {
			users := usersByID(removals)
			if err := tx.Model(&project).Association("Members").Delete(&users); err != nil {
				return err
			}
		}

		return nil
	})
}

func usersByID(ids []uint64) []models.User {
	users := make([]models.User, len(ids))
	for i, id := range ids {
		users[i] = models.User{ID: id}
	}
	return users
}
