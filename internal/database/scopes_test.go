package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/milad-sol/task-manager/internal/authz"
	"github.com/milad-sol/task-manager/internal/models"
	"github.com/milad-sol/task-manager/internal/utils"
)

type ScopesTestSuite struct {
	suite.Suite
	db *gorm.DB

	alice models.User // owns p1
	bob   models.User // member of p1
	carol models.User // owns p2, outsider to p1
	root  models.User // superuser

	p1 models.Project
	p2 models.Project

	t1 models.Task // in p1, created by bob
	t2 models.Task // in p2, assigned to bob
}

func (s *ScopesTestSuite) SetupTest() {
	var err error
	s.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	s.Require().NoError(err)

	err = s.db.AutoMigrate(&models.User{}, &models.Project{}, &models.Task{})
	s.Require().NoError(err)

	SetDB(s.db)

	s.alice = models.User{Username: "alice"}
	s.bob = models.User{Username: "bob"}
	s.carol = models.User{Username: "carol"}
	s.root = models.User{Username: "root", IsSuperuser: true}
	s.Require().NoError(s.db.Create(&s.alice).Error)
	s.Require().NoError(s.db.Create(&s.bob).Error)
	s.Require().NoError(s.db.Create(&s.carol).Error)
	s.Require().NoError(s.db.Create(&s.root).Error)

	s.p1 = models.Project{Name: "p1", OwnerID: s.alice.ID, Members: []models.User{s.bob}}
	s.p2 = models.Project{Name: "p2", OwnerID: s.carol.ID}
	s.Require().NoError(s.db.Create(&s.p1).Error)
	s.Require().NoError(s.db.Create(&s.p2).Error)

	s.t1 = models.Task{Title: "t1", ProjectID: s.p1.ID, CreatedByID: s.bob.ID}
	s.t2 = models.Task{Title: "t2", ProjectID: s.p2.ID, CreatedByID: s.carol.ID, AssignedToID: &s.bob.ID}
	s.Require().NoError(s.db.Create(&s.t1).Error)
	s.Require().NoError(s.db.Create(&s.t2).Error)
}

func (s *ScopesTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func (s *ScopesTestSuite) actor(u models.User) authz.Actor {
	return authz.Actor{ID: u.ID, Superuser: u.IsSuperuser}
}

func (s *ScopesTestSuite) projectIDs(actor authz.Actor) []uint64 {
	var ids []uint64
	err := s.db.Model(&models.Project{}).
		Scopes(VisibleProjects(actor)).
		Order("projects.id").
		Pluck("projects.id", &ids).Error
	s.Require().NoError(err)
	return ids
}

func (s *ScopesTestSuite) taskIDs(actor authz.Actor) []uint64 {
	var ids []uint64
	err := s.db.Model(&models.Task{}).
		Scopes(VisibleTasks(actor)).
		Order("tasks.id").
		Pluck("tasks.id", &ids).Error
	s.Require().NoError(err)
	return ids
}

func (s *ScopesTestSuite) TestVisibleProjects() {
	s.Equal([]uint64{s.p1.ID}, s.projectIDs(s.actor(s.alice)))
	s.Equal([]uint64{s.p1.ID}, s.projectIDs(s.actor(s.bob)))
	s.Equal([]uint64{s.p2.ID}, s.projectIDs(s.actor(s.carol)))
	s.Equal([]uint64{s.p1.ID, s.p2.ID}, s.projectIDs(s.actor(s.root)))
}

func (s *ScopesTestSuite) TestManageableProjectsIsOwnerOnly() {
	var ids []uint64
	err := s.db.Model(&models.Project{}).
		Scopes(ManageableProjects(s.actor(s.bob))).
		Pluck("projects.id", &ids).Error
	s.Require().NoError(err)

	// Bob can see p1 but does not manage it.
	s.Empty(ids)

	err = s.db.Model(&models.Project{}).
		Scopes(ManageableProjects(s.actor(s.alice))).
		Pluck("projects.id", &ids).Error
	s.Require().NoError(err)
	s.Equal([]uint64{s.p1.ID}, ids)
}

func (s *ScopesTestSuite) TestVisibleTasks() {
	// Bob sees t1 through membership and t2 through assignment.
	s.Equal([]uint64{s.t1.ID, s.t2.ID}, s.taskIDs(s.actor(s.bob)))

	s.Equal([]uint64{s.t1.ID}, s.taskIDs(s.actor(s.alice)))
	s.Equal([]uint64{s.t2.ID}, s.taskIDs(s.actor(s.carol)))
	s.Equal([]uint64{s.t1.ID, s.t2.ID}, s.taskIDs(s.actor(s.root)))
}

func (s *ScopesTestSuite) TestVisibleTasksNoDuplicateRows() {
	// Make t1 match several clauses for bob at once: member and assignee.
	s.Require().NoError(s.db.Model(&models.Task{}).
		Where("id = ?", s.t1.ID).
		Update("assigned_to_id", s.bob.ID).Error)

	var count int64
	err := s.db.Model(&models.Task{}).
		Scopes(VisibleTasks(s.actor(s.bob))).
		Where("tasks.id = ?", s.t1.ID).
		Count(&count).Error
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *ScopesTestSuite) TestSingleFetchUsesSameScope() {
	var task models.Task
	err := s.db.Scopes(VisibleTasks(s.actor(s.carol))).First(&task, s.t1.ID).Error
	s.Require().ErrorIs(err, gorm.ErrRecordNotFound)
}

func TestScopesTestSuite(t *testing.T) {
	suite.Run(t, new(ScopesTestSuite))
}

func TestPaginate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	for i := 0; i < 5; i++ {
		require.NoError(t, db.Create(&models.User{Username: string(rune('a' + i))}).Error)
	}

	var users []models.User
	params := utils.PaginationParams{Page: 2, Limit: 2, Offset: 2}
	err = db.Scopes(Paginate(params)).Order("id").Find(&users).Error
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "c", users[0].Username)
}
