package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(100);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	OwnerID     uint64         `gorm:"not null;index" json:"owner_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner   User   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members []User `gorm:"many2many:project_members" json:"members,omitempty"`
	Tasks   []Task `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}

// IsOwner reports whether the given user owns the project.
func (p *Project) IsOwner(userID uint64) bool {
	return p.OwnerID == userID
}

// HasMember reports whether the given user is in the members set. The owner
// is not implicitly a member; callers that want owner-or-member semantics
// must check IsOwner as well. Requires the Members relation to be loaded.
func (p *Project) HasMember(userID uint64) bool {
	for _, m := range p.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}
