package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/milad-sol/task-manager/internal/models"
)

const (
	ownerID    = uint64(1)
	memberID   = uint64(2)
	outsiderID = uint64(3)
	creatorID  = memberID
)

func testProject() *models.Project {
	return &models.Project{
		ID:      10,
		OwnerID: ownerID,
		Members: []models.User{{ID: memberID}},
	}
}

func testTask(assignee *uint64) *models.Task {
	return &models.Task{
		ID:           20,
		ProjectID:    10,
		CreatedByID:  creatorID,
		AssignedToID: assignee,
		Project:      *testProject(),
	}
}

func TestProjectRules(t *testing.T) {
	project := testProject()

	tests := []struct {
		name   string
		actor  Actor
		action Action
		want   bool
	}{
		{"owner can view", Actor{ID: ownerID}, ActionView, true},
		{"member can view", Actor{ID: memberID}, ActionView, true},
		{"outsider cannot view", Actor{ID: outsiderID}, ActionView, false},
		{"anyone can create", Actor{ID: outsiderID}, ActionCreate, true},
		{"owner can edit", Actor{ID: ownerID}, ActionEdit, true},
		{"member cannot edit", Actor{ID: memberID}, ActionEdit, false},
		{"owner can delete", Actor{ID: ownerID}, ActionDelete, true},
		{"member cannot delete", Actor{ID: memberID}, ActionDelete, false},
		{"owner can manage members", Actor{ID: ownerID}, ActionManageMembers, true},
		{"member cannot manage members", Actor{ID: memberID}, ActionManageMembers, false},
		{"superuser can do anything", Actor{ID: outsiderID, Superuser: true}, ActionDelete, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Project(tt.actor, project, tt.action))
		})
	}
}

func TestTaskRules(t *testing.T) {
	assignee := uint64(outsiderID)
	assigned := testTask(&assignee)
	unassigned := testTask(nil)

	tests := []struct {
		name   string
		actor  Actor
		task   *models.Task
		action Action
		want   bool
	}{
		{"project owner can view", Actor{ID: ownerID}, unassigned, ActionView, true},
		{"project member can view", Actor{ID: memberID}, unassigned, ActionView, true},
		{"assignee can view even outside project", Actor{ID: outsiderID}, assigned, ActionView, true},
		{"outsider cannot view", Actor{ID: outsiderID}, unassigned, ActionView, false},
		{"owner can create in project", Actor{ID: ownerID}, unassigned, ActionCreate, true},
		{"member can create in project", Actor{ID: memberID}, unassigned, ActionCreate, true},
		{"outsider cannot create", Actor{ID: outsiderID}, unassigned, ActionCreate, false},
		{"project owner can edit", Actor{ID: ownerID}, unassigned, ActionEdit, true},
		{"creator can edit", Actor{ID: creatorID}, unassigned, ActionEdit, true},
		{"assignee cannot full edit", Actor{ID: outsiderID}, assigned, ActionEdit, false},
		{"project owner can delete", Actor{ID: ownerID}, unassigned, ActionDelete, true},
		{"creator cannot delete", Actor{ID: creatorID}, unassigned, ActionDelete, false},
		{"project owner can assign", Actor{ID: ownerID}, unassigned, ActionAssign, true},
		{"creator can assign", Actor{ID: creatorID}, unassigned, ActionAssign, true},
		{"current assignee can assign", Actor{ID: outsiderID}, assigned, ActionAssign, true},
		{"outsider cannot assign", Actor{ID: outsiderID}, unassigned, ActionAssign, false},
		{"superuser bypasses everything", Actor{ID: 99, Superuser: true}, unassigned, ActionDelete, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Task(tt.actor, tt.task, tt.action))
		})
	}
}

func TestTaskEditChangesets(t *testing.T) {
	assignee := uint64(5)
	task := testTask(&assignee)

	// Owners and creators may change any field set.
	assert.True(t, TaskEdit(Actor{ID: ownerID}, task, []string{"title", "status"}))
	assert.True(t, TaskEdit(Actor{ID: creatorID}, task, []string{"description"}))

	// The assignee passes only with a change set of exactly {status}.
	assert.True(t, TaskEdit(Actor{ID: assignee}, task, []string{"status"}))
	assert.False(t, TaskEdit(Actor{ID: assignee}, task, []string{"status", "description"}))
	assert.False(t, TaskEdit(Actor{ID: assignee}, task, []string{"title"}))

	// Everyone else is denied regardless of the change set.
	assert.False(t, TaskEdit(Actor{ID: 77}, task, []string{"status"}))
}

func TestAssigneeEligible(t *testing.T) {
	project := testProject()

	// The owner is eligible even though owners are not in the members set.
	assert.True(t, AssigneeEligible(project, ownerID))
	assert.True(t, AssigneeEligible(project, memberID))
	assert.False(t, AssigneeEligible(project, outsiderID))
}
