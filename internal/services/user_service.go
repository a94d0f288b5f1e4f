package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/milad-sol/task-manager/internal/apperrors"
	"github.com/milad-sol/task-manager/internal/authz"
	"github.com/milad-sol/task-manager/internal/identity"
	"github.com/milad-sol/task-manager/internal/models"
	"github.com/milad-sol/task-manager/internal/repository"
)

// UserService maintains the local mirror of identity-provider principals
// and serves profile reads.
type UserService struct {
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, projectRepo repository.ProjectRepository) *UserService {
	return &UserService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
	}
}

// EnsureMirror makes sure a user row exists for the authenticated principal.
// Existing rows are never overwritten; the identity provider owns profiles.
func (s *UserService) EnsureMirror(principal identity.Principal) error {
	username := principal.Username
	if username == "" {
		username = fmt.Sprintf("user-%d", principal.Actor.ID)
	}

	user := &models.User{
		ID:          principal.Actor.ID,
		Username:    username,
		Email:       principal.Email,
		IsSuperuser: principal.Actor.Superuser,
	}

	if err := s.userRepo.Ensure(user); err != nil {
		return fmt.Errorf("failed to ensure user mirror: %w", err)
	}
	return nil
}

// Profile returns the actor's user record and the projects visible to them.
func (s *UserService) Profile(actor authz.Actor) (*models.User, []models.Project, error) {
	user, err := s.userRepo.FindByID(actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.NotFound("User not found")
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	projects, _, err := s.projectRepo.ListVisible(actor, 0, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return user, projects, nil
}
