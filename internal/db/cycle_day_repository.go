package db

import (
	"time"

	"github.com/terraincognita07/cradle/internal/models"
	"gorm.io/gorm"
)

type CycleDayRepository struct {
	database *gorm.DB
}

func NewCycleDayRepository(database *gorm.DB) *CycleDayRepository {
	return &CycleDayRepository{database: database}
}

func (repo *CycleDayRepository) ListByUserRange(userID uint, fromStart time.Time, toEnd time.Time) ([]models.CycleDay, error) {
	days := make([]models.CycleDay, 0)
	if err := repo.database.
		Where("user_id = ? AND date >= ? AND date < ?", userID, fromStart, toEnd).
		Order("date ASC").
		Find(&days).Error; err != nil {
		return nil, err
	}
	return days, nil
}

func (repo *CycleDayRepository) ListPeriodDays(userID uint) ([]models.CycleDay, error) {
	days := make([]models.CycleDay, 0)
	if err := repo.database.
		Where("user_id = ? AND marking = ?", userID, models.MarkingPeriod).
		Order("date ASC").
		Find(&days).Error; err != nil {
		return nil, err
	}
	return days, nil
}

func (repo *CycleDayRepository) Upsert(userID uint, day time.Time, marking string) (models.CycleDay, error) {
	return upsertCycleDay(repo.database, userID, day, marking)
}

// Delete removes every row stored for the calendar day starting at day, so
// rows written under an earlier time zone go too.
func (repo *CycleDayRepository) Delete(userID uint, day time.Time) (bool, error) {
	result := repo.database.Scopes(onDay(userID, day)).Delete(&models.CycleDay{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// onDay matches the day as a [day, day+1) range rather than by equality.
func onDay(userID uint, day time.Time) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		return query.Where("user_id = ? AND date >= ? AND date < ?", userID, day, day.AddDate(0, 0, 1))
	}
}

func upsertCycleDay(tx *gorm.DB, userID uint, day time.Time, marking string) (models.CycleDay, error) {
	var entry models.CycleDay
	result := tx.Scopes(onDay(userID, day)).Order("date DESC, id DESC").Limit(1).Find(&entry)
	if result.Error != nil {
		return models.CycleDay{}, result.Error
	}
	if result.RowsAffected == 0 {
		entry = models.CycleDay{UserID: userID, Date: day, Marking: marking}
		return entry, tx.Create(&entry).Error
	}
	if err := tx.Model(&entry).Updates(map[string]any{"date": day, "marking": marking}).Error; err != nil {
		return models.CycleDay{}, err
	}
	entry.Date, entry.Marking = day, marking
	return entry, nil
}
