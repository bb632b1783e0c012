package db

import (
	"github.com/terraincognita07/cradle/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferenceRepository struct {
	database *gorm.DB
}

func NewPreferenceRepository(database *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{database: database}
}

func (repo *PreferenceRepository) ListByUser(userID uint) ([]models.Preference, error) {
	preferences := make([]models.Preference, 0)
	if err := repo.database.Where("user_id = ?", userID).Order("pref_key ASC").Find(&preferences).Error; err != nil {
		return nil, err
	}
	return preferences, nil
}

func (repo *PreferenceRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Preference{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *PreferenceRepository) Exists(userID uint, key string) (bool, error) {
	var count int64
	if err := repo.database.Model(&models.Preference{}).
		Where("user_id = ? AND pref_key = ?", userID, key).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (repo *PreferenceRepository) Upsert(preference *models.Preference) error {
	return repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "pref_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(preference).Error
}

func (repo *PreferenceRepository) Delete(userID uint, key string) (bool, error) {
	result := repo.database.Where("user_id = ? AND pref_key = ?", userID, key).Delete(&models.Preference{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
