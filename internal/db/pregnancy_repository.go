package db

import (
	"github.com/terraincognita07/cradle/internal/models"
	"gorm.io/gorm"
)

type PregnancyRepository struct {
	database *gorm.DB
}

func NewPregnancyRepository(database *gorm.DB) *PregnancyRepository {
	return &PregnancyRepository{database: database}
}

func (repo *PregnancyRepository) ListTests(userID uint) ([]models.PregnancyTest, error) {
	tests := make([]models.PregnancyTest, 0)
	if err := repo.database.Where("user_id = ?", userID).Order("taken_at DESC, id ASC").Find(&tests).Error; err != nil {
		return nil, err
	}
	return tests, nil
}

func (repo *PregnancyRepository) FindTest(userID uint, id string) (models.PregnancyTest, error) {
	var test models.PregnancyTest
	if err := repo.database.Where("user_id = ? AND id = ?", userID, id).First(&test).Error; err != nil {
		return models.PregnancyTest{}, err
	}
	return test, nil
}

func (repo *PregnancyRepository) CreateTest(test *models.PregnancyTest) error {
	return repo.database.Create(test).Error
}

func (repo *PregnancyRepository) SaveTest(test *models.PregnancyTest) error {
	return repo.database.Save(test).Error
}

func (repo *PregnancyRepository) DeleteTest(userID uint, id string) (bool, error) {
	return deleteOwned(repo.database, &models.PregnancyTest{}, userID, id)
}

func (repo *PregnancyRepository) ListAttempts(userID uint) ([]models.ConceptionAttempt, error) {
	attempts := make([]models.ConceptionAttempt, 0)
	if err := repo.database.Where("user_id = ?", userID).Order("occurred_at DESC, id ASC").Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (repo *PregnancyRepository) CreateAttempt(attempt *models.ConceptionAttempt) error {
	return repo.database.Create(attempt).Error
}

func (repo *PregnancyRepository) DeleteAttempt(userID uint, id string) (bool, error) {
	return deleteOwned(repo.database, &models.ConceptionAttempt{}, userID, id)
}

func deleteOwned(database *gorm.DB, model any, userID uint, id string) (bool, error) {
	result := database.Where("user_id = ? AND id = ?", userID, id).Delete(model)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
