package models

import (
	"time"
)

// User mirrors a principal from the external identity provider. The tracker
// never stores credentials; rows exist so that memberships and assignments
// can reference a stable user id.
type User struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Username    string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email       string    `gorm:"type:varchar(254)" json:"email"`
	IsSuperuser bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	OwnedProjects []Project `gorm:"foreignKey:OwnerID" json:"-"`
	CreatedTasks  []Task    `gorm:"foreignKey:CreatedByID" json:"-"`
	AssignedTasks []Task    `gorm:"foreignKey:AssignedToID" json:"-"`
}
