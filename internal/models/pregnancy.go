package models

import "time"

const (
	TestResultPositive = "positive"
	TestResultNegative = "negative"
	TestResultFaint    = "faint"
	TestResultInvalid  = "invalid"
)

type PregnancyTest struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"-"`
	TakenAt   time.Time `gorm:"not null" json:"taken_at"`
	Result    string    `gorm:"not null" json:"result"`
	Brand     string    `gorm:"not null;default:''" json:"brand"`
	Notes     string    `gorm:"not null;default:''" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ConceptionAttempt struct {
	ID              string    `gorm:"primaryKey;type:text" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"-"`
	OccurredAt      time.Time `gorm:"not null" json:"occurred_at"`
	InFertileWindow bool      `gorm:"not null;default:false" json:"in_fertile_window"`
	Notes           string    `gorm:"not null;default:''" json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}

func IsValidTestResult(value string) bool {
	switch value {
	case TestResultPositive, TestResultNegative, TestResultFaint, TestResultInvalid:
		return true
	default:
		return false
	}
}
