package db

import (
	"time"

	"github.com/terraincognita07/cradle/internal/models"
	"gorm.io/gorm"
)

// ownedModels lists every table keyed by user_id. Account deletion walks it
// before removing the user row.
var ownedModels = []any{
	&models.CycleDay{},
	&models.PregnancyTest{},
	&models.ConceptionAttempt{},
	&models.FeedingLog{},
	&models.VaccinationLog{},
	&models.GrowthLog{},
	&models.Baby{},
	&models.Preference{},
}

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

// byEmail matches an already normalized address against stored ones, which
// may predate normalization.
func byEmail(email string) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		return query.Where("lower(trim(email)) = ?", email)
	}
}

func (repo *UserRepository) user(userID uint) *gorm.DB {
	return repo.database.Model(&models.User{}).Where("id = ?", userID)
}

func (repo *UserRepository) FindByID(userID uint) (user models.User, err error) {
	err = repo.database.First(&user, userID).Error
	return user, err
}

func (repo *UserRepository) FindByNormalizedEmail(email string) (user models.User, err error) {
	err = repo.database.Scopes(byEmail(email)).First(&user).Error
	return user, err
}

func (repo *UserRepository) ExistsByNormalizedEmail(email string) (bool, error) {
	var count int64
	err := repo.database.Model(&models.User{}).Scopes(byEmail(email)).Limit(1).Count(&count).Error
	return count > 0, err
}

func (repo *UserRepository) Create(user *models.User) error {
	return repo.database.Create(user).Error
}

func (repo *UserRepository) ListWithRecoveryCodeHash() ([]models.User, error) {
	var users []models.User
	err := repo.database.Where("recovery_code_hash <> ''").Order("id").Find(&users).Error
	return users, err
}

func (repo *UserRepository) UpdateRecoveryCodeHash(userID uint, recoveryHash string) error {
	return repo.user(userID).Update("recovery_code_hash", recoveryHash).Error
}

func (repo *UserRepository) UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error {
	return repo.UpdateByID(userID, map[string]any{
		"password_hash":        passwordHash,
		"must_change_password": mustChangePassword,
	})
}

func (repo *UserRepository) UpdateByID(userID uint, updates map[string]any) error {
	return repo.user(userID).Updates(updates).Error
}

// CompleteOnboarding stores the first period as manual period days and sets
// the completion flag atomically.
func (repo *UserRepository) CompleteOnboarding(userID uint, startDay time.Time, periodLength int) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		for day := startDay; day.Before(startDay.AddDate(0, 0, periodLength)); day = day.AddDate(0, 0, 1) {
			if _, err := upsertCycleDay(tx, userID, day, models.MarkingPeriod); err != nil {
				return err
			}
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
			"last_period_start":    startDay,
			"onboarding_completed": true,
		}).Error
	})
}

func (repo *UserRepository) DeleteAccountAndRelatedData(userID uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		for _, model := range ownedModels {
			if err := tx.Where("user_id = ?", userID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.User{}, userID).Error
	})
}
