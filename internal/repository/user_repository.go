package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/milad-sol/task-manager/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CountByIDs counts how many of the given user IDs exist
func (r *GormUserRepository) CountByIDs(ids []uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

// Ensure inserts the user mirror row if it does not exist yet. Existing rows
// are left untouched; the identity provider owns the profile.
func (r *GormUserRepository) Ensure(user *models.User) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(user).Error
}
