package database

import (
	"errors"

	"github.com/avoronov/devlink/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func mostRecentFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

func (d *Database) GetProfileByUserID(userID string) (*models.Profile, error) {
	var profile models.Profile
	err := d.db.
		Preload("User").
		Preload("Experience", mostRecentFirst).
		Preload("Education", mostRecentFirst).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (d *Database) GetAllProfiles() ([]models.Profile, error) {
	var profiles []models.Profile
	err := d.db.
		Preload("User").
		Preload("Experience", mostRecentFirst).
		Preload("Education", mostRecentFirst).
		Order("created_at DESC").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// UpsertProfile creates the profile or updates only the given columns of an
// existing one as a single INSERT ... ON CONFLICT (user_id) DO UPDATE, so
// concurrent upserts for the same user cannot race into duplicates and
// columns absent from the request keep their stored values.
func (d *Database) UpsertProfile(profile *models.Profile, columns []string) (*models.Profile, error) {
	err := d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(profile).Error
	if err != nil {
		return nil, err
	}
	return d.GetProfileByUserID(profile.UserID.String())
}

func (d *Database) AddExperience(exp *models.Experience) error {
	return d.db.Create(exp).Error
}

// DeleteExperience removes exactly the entry with the given id from the
// profile. An unmatched id is ErrNotFound, never a different entry.
func (d *Database) DeleteExperience(profileID, expID string) error {
	res := d.db.Delete(&models.Experience{}, "id = ? AND profile_id = ?", expID, profileID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *Database) AddEducation(edu *models.Education) error {
	return d.db.Create(edu).Error
}

func (d *Database) DeleteEducation(profileID, eduID string) error {
	res := d.db.Delete(&models.Education{}, "id = ? AND profile_id = ?", eduID, profileID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
