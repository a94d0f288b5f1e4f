package database

import (
	"gorm.io/gorm"

	"github.com/milad-sol/task-manager/internal/authz"
	"github.com/milad-sol/task-manager/internal/utils"
)

// Visibility and manageability predicates. Both the list and single-fetch
// code paths go through these scopes, so the two can never disagree about
// what an actor may see. An id lookup that falls outside a scope surfaces
// as record-not-found, indistinguishable from absence.

// VisibleProjects limits a project query to projects the actor owns or is a
// member of. Superusers see everything.
func VisibleProjects(actor authz.Actor) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if actor.Superuser {
			return db
		}
		membership := db.Session(&gorm.Session{NewDB: true}).
			Table("project_members").
			Select("1").
			Where("project_members.project_id = projects.id").
			Where("project_members.user_id = ?", actor.ID)
		return db.Where("projects.owner_id = ? OR EXISTS (?)", actor.ID, membership)
	}
}

// ManageableProjects limits a project query to projects the actor owns. This
// is the candidate set for membership mutations, so a non-owner's attempt
// surfaces as not-found rather than forbidden. Superusers manage everything.
func ManageableProjects(actor authz.Actor) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if actor.Superuser {
			return db
		}
		return db.Where("projects.owner_id = ?", actor.ID)
	}
}

// VisibleTasks limits a task query to tasks whose project the actor owns or
// belongs to, plus tasks assigned to the actor. A task matching several
// clauses still yields one row; the OR conditions apply to the task row
// itself, so no deduplication step is needed. Superusers see everything.
func VisibleTasks(actor authz.Actor) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if actor.Superuser {
			return db
		}
		ownership := db.Session(&gorm.Session{NewDB: true}).
			Table("projects").
			Select("1").
			Where("projects.id = tasks.project_id").
			Where("projects.owner_id = ?", actor.ID).
			Where("projects.deleted_at IS NULL")
		membership := db.Session(&gorm.Session{NewDB: true}).
			Table("project_members").
			Select("1").
			Where("project_members.project_id = tasks.project_id").
			Where("project_members.user_id = ?", actor.ID)
		return db.Where("tasks.assigned_to_id = ? OR EXISTS (?) OR EXISTS (?)",
			actor.ID, ownership, membership)
	}
}

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}
