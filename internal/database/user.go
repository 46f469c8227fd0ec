package database

import (
	"errors"

	"github.com/avoronov/devlink/internal/models"
	"gorm.io/gorm"
)

func (d *Database) SaveUser(user *models.User) error {
	if err := d.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (d *Database) GetUser(id string) (*models.User, error) {
	user := models.User{}
	if err := d.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByEmail(email string) (*models.User, error) {
	user := models.User{}
	if err := d.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// DeleteAccount removes the user's posts (with their likes and comments),
// profile (with experience and education) and finally the user record.
// Runs in one transaction so a partial cascade never survives.
func (d *Database) DeleteAccount(userID string) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		var posts []models.Post
		if err := tx.Where("user_id = ?", userID).Find(&posts).Error; err != nil {
			return err
		}
		for _, post := range posts {
			if err := tx.Delete(&models.Like{}, "post_id = ?", post.ID).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Comment{}, "post_id = ?", post.ID).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&models.Post{}, "user_id = ?", userID).Error; err != nil {
			return err
		}

		var profile models.Profile
		err := tx.Where("user_id = ?", userID).First(&profile).Error
		if err == nil {
			if err := tx.Delete(&models.Experience{}, "profile_id = ?", profile.ID).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Education{}, "profile_id = ?", profile.ID).Error; err != nil {
				return err
			}
			if err := tx.Delete(&profile).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Delete(&models.User{}, "id = ?", userID).Error
	})
}
