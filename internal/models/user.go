package models

import "time"

const (
	DefaultCycleLength  = 28
	DefaultPeriodLength = 5
)

type User struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash        string     `gorm:"not null" json:"-"`
	RecoveryCodeHash    string     `json:"-"`
	MustChangePassword  bool       `gorm:"not null;default:false" json:"must_change_password"`
	DisplayName         string     `gorm:"not null;default:''" json:"display_name"`
	Age                 int        `gorm:"not null;default:0" json:"age"`
	Phone               string     `gorm:"not null;default:''" json:"phone"`
	PartnerName         string     `gorm:"not null;default:''" json:"partner_name"`
	LastPeriodStart     *time.Time `gorm:"type:date" json:"last_period_start,omitempty"`
	CycleLength         int        `gorm:"not null;default:28" json:"cycle_length"`
	PeriodLength        int        `gorm:"not null;default:5" json:"period_length"`
	OnboardingCompleted bool       `gorm:"not null;default:false" json:"onboarding_completed"`
	CreatedAt           time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}
