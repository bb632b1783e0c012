package db

import "gorm.io/gorm"

type Repositories struct {
	Users       *UserRepository
	CycleDays   *CycleDayRepository
	Pregnancy   *PregnancyRepository
	Newborn     *NewbornRepository
	Preferences *PreferenceRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(database),
		CycleDays:   NewCycleDayRepository(database),
		Pregnancy:   NewPregnancyRepository(database),
		Newborn:     NewNewbornRepository(database),
		Preferences: NewPreferenceRepository(database),
	}
}
