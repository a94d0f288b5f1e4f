// Package authz decides, per resource and per action, whether an actor may
// proceed. Decisions are pure functions of the actor and an already-loaded
// entity; nothing here touches storage or the transport layer. Query-level
// visibility filtering lives in the database scopes and must agree with the
// view rules implemented here.
package authz

import (
	"github.com/milad-sol/task-manager/internal/models"
)

// Actor identifies the user a request runs as, as resolved by the external
// identity provider.
type Actor struct {
	ID        uint64
	Superuser bool
}

// Action enumerates the operations the evaluator knows about.
type Action string

const (
	ActionView          Action = "view"
	ActionCreate        Action = "create"
	ActionEdit          Action = "edit"
	ActionDelete        Action = "delete"
	ActionManageMembers Action = "manage_members"
	ActionAssign        Action = "assign"
)

// TaskStatusField is the single field an assignee is allowed to change.
const TaskStatusField = "status"

// Project evaluates an action against a project. The Members relation must
// be loaded for view and create checks.
func Project(actor Actor, project *models.Project, action Action) bool {
	if actor.Superuser {
		return true
	}

	switch action {
	case ActionCreate:
		// Any authenticated actor may create a project; the actor becomes
		// the owner as a side effect of creation, not as a precondition.
		return true
	case ActionView:
		return project.IsOwner(actor.ID) || project.HasMember(actor.ID)
	case ActionEdit, ActionDelete, ActionManageMembers:
		return project.IsOwner(actor.ID)
	}
	return false
}

// Task evaluates an action against a task. The task's Project relation,
// including its members, must be loaded.
func Task(actor Actor, task *models.Task, action Action) bool {
	if actor.Superuser {
		return true
	}

	ownsProject := task.Project.IsOwner(actor.ID)

	switch action {
	case ActionView:
		return ownsProject || task.Project.HasMember(actor.ID) || task.IsAssignee(actor.ID)
	case ActionCreate:
		// "Create" on a task means creating it inside task.Project.
		return ownsProject || task.Project.HasMember(actor.ID)
	case ActionEdit:
		return ownsProject || task.CreatedByID == actor.ID
	case ActionDelete:
		// Creators cannot delete. Deliberately narrower than edit.
		return ownsProject
	case ActionAssign:
		return ownsProject || task.CreatedByID == actor.ID || task.IsAssignee(actor.ID)
	}
	return false
}

// TaskEdit evaluates a task update against the set of fields present in the
// change set. Owners and creators may change anything. An assignee is
// additionally allowed when the change set is exactly {status}.
func TaskEdit(actor Actor, task *models.Task, changed []string) bool {
	if Task(actor, task, ActionEdit) {
		return true
	}
	return task.IsAssignee(actor.ID) && statusOnly(changed)
}

// AssigneeEligible reports whether a user may be set as the task's assignee:
// the project owner or a current member. Membership is checked at assignment
// time only; a later member removal does not retroactively unassign.
func AssigneeEligible(project *models.Project, userID uint64) bool {
	return project.IsOwner(userID) || project.HasMember(userID)
}

func statusOnly(changed []string) bool {
	return len(changed) == 1 && changed[0] == TaskStatusField
}
