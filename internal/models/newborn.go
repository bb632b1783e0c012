package models

import "time"

const (
	FeedingBreast  = "breast"
	FeedingBottle  = "bottle"
	FeedingFormula = "formula"
	FeedingSolid   = "solid"
)

const (
	SexUnspecified = ""
	SexFemale      = "female"
	SexMale        = "male"
)

type Baby struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"-"`
	Name      string    `gorm:"not null" json:"name"`
	BirthDate time.Time `gorm:"type:date;not null" json:"birth_date"`
	Sex       string    `gorm:"not null;default:''" json:"sex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type FeedingLog struct {
	ID              string    `gorm:"primaryKey;type:text" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"-"`
	Kind            string    `gorm:"not null" json:"kind"`
	AmountML        int       `gorm:"column:amount_ml;not null;default:0" json:"amount_ml"`
	DurationMinutes int       `gorm:"not null;default:0" json:"duration_minutes"`
	FedAt           time.Time `gorm:"not null" json:"fed_at"`
	Notes           string    `gorm:"not null;default:''" json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}

type VaccinationLog struct {
	ID        string     `gorm:"primaryKey;type:text" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"-"`
	Vaccine   string     `gorm:"not null" json:"vaccine"`
	Dose      string     `gorm:"not null;default:''" json:"dose"`
	GivenAt   time.Time  `gorm:"not null" json:"given_at"`
	NextDueAt *time.Time `json:"next_due_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type GrowthLog struct {
	ID         string    `gorm:"primaryKey;type:text" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"-"`
	MeasuredAt time.Time `gorm:"not null" json:"measured_at"`
	WeightKG   float64   `gorm:"column:weight_kg;not null;default:0" json:"weight_kg"`
	LengthCM   float64   `gorm:"column:length_cm;not null;default:0" json:"length_cm"`
	HeadCM     float64   `gorm:"column:head_cm;not null;default:0" json:"head_cm"`
	CreatedAt  time.Time `json:"created_at"`
}

func IsValidFeedingKind(value string) bool {
	switch value {
	case FeedingBreast, FeedingBottle, FeedingFormula, FeedingSolid:
		return true
	default:
		return false
	}
}
