package models

import "time"

const (
	MarkingNone      = "none"
	MarkingPeriod    = "period"
	MarkingFertile   = "fertile"
	MarkingOvulation = "ovulation"
)

const (
	MarkingSourceManual  = "manual"
	MarkingSourceDerived = "derived"
)

// CycleDay is a manual marking stored for one calendar day. Derived markings
// are computed on read and never persisted.
type CycleDay struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:uidx_cycle_days_user_date" json:"-"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:uidx_cycle_days_user_date" json:"date"`
	Marking   string    `gorm:"not null;default:none" json:"marking"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

func IsValidMarking(value string) bool {
	switch value {
	case MarkingNone, MarkingPeriod, MarkingFertile, MarkingOvulation:
		return true
	default:
		return false
	}
}
