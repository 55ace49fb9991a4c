package database

import (
	"errors"

	"gorm.io/gorm"

	"github.com/audily-music-platform/pkg/apperrors"
	"github.com/audily-music-platform/pkg/models"
)

func (db *Store) CreateUser(user *models.User) error {
	if err := db.Create(user).Error; err != nil {
		return translate(err, "user not found", "username already taken")
	}
	return nil
}

// GetUserByUsername returns (nil, nil) when no such user exists, so
// callers can distinguish "absent" from a failed query.
func (db *Store) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Internal("database error", err)
	}
	return &user, nil
}

func (db *Store) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return nil, translate(err, "user not found", "")
	}
	return &user, nil
}

func (db *Store) SetUserRole(id uint, role string) error {
	res := db.Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return apperrors.Internal("database error", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("user not found")
	}
	return nil
}

func (db *Store) ListUsers() ([]models.User, error) {
	users := []models.User{}
	if err := db.Order("id").Find(&users).Error; err != nil {
		return nil, apperrors.Internal("database error", err)
	}
	return users, nil
}

func (db *Store) CreateActivity(entry *models.ActivityLog) error {
	if err := db.Create(entry).Error; err != nil {
		return apperrors.Internal("database error", err)
	}
	return nil
}
