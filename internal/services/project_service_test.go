package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/milad-sol/task-manager/internal/apperrors"
	"github.com/milad-sol/task-manager/internal/authz"
	"github.com/milad-sol/task-manager/internal/models"
	"github.com/milad-sol/task-manager/internal/repository"
)

type ProjectServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *ProjectService

	alice models.User
	bob   models.User
	carol models.User
}

func (s *ProjectServiceTestSuite) SetupTest() {
	var err error
	s.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	s.Require().NoError(err)

	err = s.db.AutoMigrate(&models.User{}, &models.Project{}, &models.Task{})
	s.Require().NoError(err)

	projectRepo := repository.NewProjectRepository(s.db)
	userRepo := repository.NewUserRepository(s.db)
	s.service = NewProjectService(projectRepo, userRepo)

	s.alice = models.User{Username: "alice"}
	s.bob = models.User{Username: "bob"}
	s.carol = models.User{Username: "carol"}
	s.Require().NoError(s.db.Create(&s.alice).Error)
	s.Require().NoError(s.db.Create(&s.bob).Error)
	s.Require().NoError(s.db.Create(&s.carol).Error)
}

func (s *ProjectServiceTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func (s *ProjectServiceTestSuite) actor(u models.User) authz.Actor {
	return authz.Actor{ID: u.ID, Superuser: u.IsSuperuser}
}

func (s *ProjectServiceTestSuite) createProject(owner models.User, members ...models.User) *models.Project {
	project := &models.Project{Name: "Test Project", OwnerID: owner.ID, Members: members}
	s.Require().NoError(s.db.Create(project).Error)
	return project
}

func (s *ProjectServiceTestSuite) memberIDs(projectID uint64) []uint64 {
	var ids []uint64
	s.Require().NoError(s.db.Table("project_members").
		Where("project_id = ?", projectID).
		Order("user_id").
		Pluck("user_id", &ids).Error)
	return ids
}

func (s *ProjectServiceTestSuite) TestCreateProjectOwnerFromActor() {
	project, err := s.service.CreateProject(s.actor(s.alice), CreateProjectInput{
		Name:        "Rollout",
		Description: "Q3 rollout tracking",
	})
	s.Require().NoError(err)
	s.Equal(s.alice.ID, project.OwnerID)
	s.Equal("Rollout", project.Name)
}

func (s *ProjectServiceTestSuite) TestCreateProjectEmptyName() {
	_, err := s.service.CreateProject(s.actor(s.alice), CreateProjectInput{Name: "   "})
	s.True(apperrors.IsValidation(err))
}

func (s *ProjectServiceTestSuite) TestGetProjectInvisibleIsNotFound() {
	project := s.createProject(s.alice, s.bob)

	_, err := s.service.GetProject(s.actor(s.carol), project.ID)
	s.True(apperrors.IsNotFound(err))

	// Members and owners can fetch it.
	_, err = s.service.GetProject(s.actor(s.bob), project.ID)
	s.NoError(err)
}

func (s *ProjectServiceTestSuite) TestUpdateProjectVisibleNonOwnerIsForbidden() {
	project := s.createProject(s.alice, s.bob)

	name := "Renamed"
	_, err := s.service.UpdateProject(s.actor(s.bob), project.ID, UpdateProjectInput{Name: &name})
	s.True(apperrors.IsForbidden(err))

	updated, err := s.service.UpdateProject(s.actor(s.alice), project.ID, UpdateProjectInput{Name: &name})
	s.Require().NoError(err)
	s.Equal("Renamed", updated.Name)
}

func (s *ProjectServiceTestSuite) TestDeleteProjectCascades() {
	project := s.createProject(s.alice, s.bob)
	task := &models.Task{Title: "t", ProjectID: project.ID, CreatedByID: s.bob.ID}
	s.Require().NoError(s.db.Create(task).Error)

	s.True(apperrors.IsForbidden(s.service.DeleteProject(s.actor(s.bob), project.ID)))

	s.Require().NoError(s.service.DeleteProject(s.actor(s.alice), project.ID))

	var count int64
	s.db.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&count)
	s.Equal(int64(0), count)
	s.Empty(s.memberIDs(project.ID))
}

func (s *ProjectServiceTestSuite) TestSetMembersNonOwnerIsNotFound() {
	project := s.createProject(s.alice, s.bob)

	// Bob can view the project, but as a mutation target it does not exist
	// for him.
	_, err := s.service.SetMembers(s.actor(s.bob), project.ID, SetMembersInput{Add: []uint64{s.carol.ID}})
	s.True(apperrors.IsNotFound(err))
}

func (s *ProjectServiceTestSuite) TestSetMembersIdempotent() {
	project := s.createProject(s.alice)

	input := SetMembersInput{Add: []uint64{s.bob.ID}}
	_, err := s.service.SetMembers(s.actor(s.alice), project.ID, input)
	s.Require().NoError(err)

	// Adding the same member again is a no-op, not an error.
	_, err = s.service.SetMembers(s.actor(s.alice), project.ID, input)
	s.Require().NoError(err)
	s.Equal([]uint64{s.bob.ID}, s.memberIDs(project.ID))

	// Removing a non-member is likewise a no-op.
	_, err = s.service.SetMembers(s.actor(s.alice), project.ID, SetMembersInput{Remove: []uint64{s.carol.ID}})
	s.Require().NoError(err)
	s.Equal([]uint64{s.bob.ID}, s.memberIDs(project.ID))
}

func (s *ProjectServiceTestSuite) TestSetMembersUnknownUser() {
	project := s.createProject(s.alice)

	_, err := s.service.SetMembers(s.actor(s.alice), project.ID, SetMembersInput{Add: []uint64{9999}})
	s.True(apperrors.IsNotFound(err))
	s.Empty(s.memberIDs(project.ID))
}

func (s *ProjectServiceTestSuite) TestSetMembersEmptyBatch() {
	project := s.createProject(s.alice)

	_, err := s.service.SetMembers(s.actor(s.alice), project.ID, SetMembersInput{})
	s.True(apperrors.IsValidation(err))
}

func (s *ProjectServiceTestSuite) TestSuperuserBypassesOwnership() {
	project := s.createProject(s.alice)
	root := authz.Actor{ID: s.carol.ID, Superuser: true}

	_, err := s.service.SetMembers(root, project.ID, SetMembersInput{Add: []uint64{s.bob.ID}})
	s.Require().NoError(err)

	name := "Root renamed"
	_, err = s.service.UpdateProject(root, project.ID, UpdateProjectInput{Name: &name})
	s.NoError(err)
}

func TestProjectServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectServiceTestSuite))
}
