package models

import "time"

type Preference struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"-"`
	Key       string    `gorm:"column:pref_key;primaryKey;type:text" json:"key"`
	Value     string    `gorm:"not null;default:''" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
