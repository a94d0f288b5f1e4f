package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/milad-sol/task-manager/internal/apperrors"
	"github.com/milad-sol/task-manager/internal/authz"
	"github.com/milad-sol/task-manager/internal/models"
	"github.com/milad-sol/task-manager/internal/repository"
)

// ProjectService provides business logic for project operations. Lookups run
// through the visibility/manageability scopes, then the specific mutation is
// authorized against the loaded entity.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
}

// UpdateProjectInput represents a partial update of project fields.
type UpdateProjectInput struct {
	Name        *string
	Description *string
}

// SetMembersInput represents a batch membership change.
type SetMembersInput struct {
	Add    []uint64
	Remove []uint64
}

// CreateProject creates a project owned by the actor. The owner always comes
// from the actor, never from the payload.
func (s *ProjectService) CreateProject(actor authz.Actor, input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.Validation("Project name cannot be empty")
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     actor.ID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.projectRepo.FindVisibleByID(actor, project.ID, "Owner", "Members")
}

// ListProjects returns projects visible to the actor, with the total count.
func (s *ProjectService) ListProjects(actor authz.Actor, page, pageSize int) ([]models.Project, int64, error) {
	projects, total, err := s.projectRepo.ListVisible(actor, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// GetProject returns a visible project with owner and members loaded.
func (s *ProjectService) GetProject(actor authz.Actor, id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindVisibleByID(actor, id, "Owner", "Members")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Project not found")
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// UpdateProject applies field edits. A member who can see the project but
// does not own it gets a forbidden result, not a lookup miss.
func (s *ProjectService) UpdateProject(actor authz.Actor, id uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.GetProject(actor, id)
	if err != nil {
		return nil, err
	}

	if !authz.Project(actor, project, authz.ActionEdit) {
		return nil, apperrors.Forbidden("Only the project owner can edit the project")
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperrors.Validation("Project name cannot be empty")
		}
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project and cascades to its tasks and memberships.
func (s *ProjectService) DeleteProject(actor authz.Actor, id uint64) error {
	project, err := s.GetProject(actor, id)
	if err != nil {
		return err
	}

	if !authz.Project(actor, project, authz.ActionDelete) {
		return apperrors.Forbidden("Only the project owner can delete the project")
	}

	if err := s.projectRepo.Delete(project.ID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// SetMembers applies a batch of membership additions and removals. The
// candidate set is owner-only, so a non-owner acting on a project it can
// otherwise see gets a not-found result. Adding an existing member or
// removing a non-member is a no-op; unknown user ids fail the whole batch
// before any write.
func (s *ProjectService) SetMembers(actor authz.Actor, id uint64, input SetMembersInput) (*models.Project, error) {
	project, err := s.projectRepo.FindManageableByID(actor, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Project not found")
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if len(input.Add) == 0 && len(input.Remove) == 0 {
		return nil, apperrors.Validation("No membership changes requested")
	}

	userIDs := uniqueUint64(append(append([]uint64{}, input.Add...), input.Remove...))
	count, err := s.userRepo.CountByIDs(userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to verify users: %w", err)
	}
	if int(count) != len(userIDs) {
		return nil, apperrors.NotFound("User does not exist")
	}

	if err := s.projectRepo.SetMembers(project.ID, uniqueUint64(input.Add), uniqueUint64(input.Remove)); err != nil {
		return nil, fmt.Errorf("failed to update members: %w", err)
	}

	return s.projectRepo.FindVisibleByID(actor, project.ID, "Owner", "Members")
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
