package db

import (
	"errors"
	"time"

	"github.com/terraincognita07/cradle/internal/models"
	"gorm.io/gorm"
)

type NewbornRepository struct {
	database *gorm.DB
}

func NewNewbornRepository(database *gorm.DB) *NewbornRepository {
	return &NewbornRepository{database: database}
}

func (repo *NewbornRepository) FindBaby(userID uint) (models.Baby, bool, error) {
	var baby models.Baby
	err := repo.database.Where("user_id = ?", userID).First(&baby).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Baby{}, false, nil
	}
	if err != nil {
		return models.Baby{}, false, err
	}
	return baby, true, nil
}

func (repo *NewbornRepository) SaveBaby(baby *models.Baby) error {
	return repo.database.Save(baby).Error
}

func (repo *NewbornRepository) ListFeedings(userID uint) ([]models.FeedingLog, error) {
	entries := make([]models.FeedingLog, 0)
	if err := repo.database.Where("user_id = ?", userID).Order("fed_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *NewbornRepository) CreateFeeding(entry *models.FeedingLog) error {
	return repo.database.Create(entry).Error
}

func (repo *NewbornRepository) DeleteFeeding(userID uint, id string) (bool, error) {
	return deleteOwned(repo.database, &models.FeedingLog{}, userID, id)
}

func (repo *NewbornRepository) ListVaccinations(userID uint) ([]models.VaccinationLog, error) {
	entries := make([]models.VaccinationLog, 0)
	if err := repo.database.Where("user_id = ?", userID).Order("given_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *NewbornRepository) ListVaccinationsDueBefore(userID uint, before time.Time) ([]models.VaccinationLog, error) {
	entries := make([]models.VaccinationLog, 0)
	if err := repo.database.
		Where("user_id = ? AND next_due_at IS NOT NULL AND next_due_at < ?", userID, before).
		Order("next_due_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *NewbornRepository) CreateVaccination(entry *models.VaccinationLog) error {
	return repo.database.Create(entry).Error
}

func (repo *NewbornRepository) DeleteVaccination(userID uint, id string) (bool, error) {
	return deleteOwned(repo.database, &models.VaccinationLog{}, userID, id)
}

func (repo *NewbornRepository) ListGrowth(userID uint) ([]models.GrowthLog, error) {
	entries := make([]models.GrowthLog, 0)
	if err := repo.database.Where("user_id = ?", userID).Order("measured_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *NewbornRepository) CreateGrowth(entry *models.GrowthLog) error {
	return repo.database.Create(entry).Error
}

func (repo *NewbornRepository) DeleteGrowth(userID uint, id string) (bool, error) {
	return deleteOwned(repo.database, &models.GrowthLog{}, userID, id)
}
