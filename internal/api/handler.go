package api

import (
	"errors"
	"time"

	"github.com/terraincognita07/cradle/internal/advisor"
	"github.com/terraincognita07/cradle/internal/db"
	"github.com/terraincognita07/cradle/internal/services"
	"github.com/terraincognita07/cradle/internal/telemetry"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	authAttemptsLimit  = 8
	authAttemptsWindow = 15 * time.Minute
)

// VitalsSource is the read side of the telemetry poller.
type VitalsSource interface {
	Status() telemetry.Status
	Series(metric string) ([]telemetry.Point, bool)
}

type Options struct {
	SecretKey    string
	Location     *time.Location
	CookieSecure bool
	Logger       *zap.Logger
	Advisor      *advisor.Service
	Vitals       VitalsSource
	HashCost     int
}

type Handler struct {
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	logger       *zap.Logger
	now          func() time.Time

	authService       *services.AuthService
	profileService    *services.ProfileService
	cycleService      *services.CycleService
	pregnancyService  *services.PregnancyService
	conceptionService *services.ConceptionService
	newbornService    *services.NewbornService
	preferenceService *services.PreferenceService

	advisor *advisor.Service
	vitals  VitalsSource

	authLimiter *attemptLimiter
}

func NewHandler(database *gorm.DB, options Options) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if options.SecretKey == "" {
		return nil, errors.New("secret key is required")
	}
	if options.Location == nil {
		options.Location = time.UTC
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	if options.HashCost == 0 {
		options.HashCost = bcrypt.DefaultCost
	}

	repositories := db.NewRepositories(database)
	return &Handler{
		secretKey:    []byte(options.SecretKey),
		location:     options.Location,
		cookieSecure: options.CookieSecure,
		logger:       options.Logger.Named("api"),
		now:          time.Now,

		authService:       services.NewAuthService(repositories.Users).WithHashCost(options.HashCost),
		profileService:    services.NewProfileService(repositories.Users),
		cycleService:      services.NewCycleService(repositories.CycleDays, repositories.Users),
		pregnancyService:  services.NewPregnancyService(repositories.Pregnancy),
		conceptionService: services.NewConceptionService(repositories.Pregnancy),
		newbornService:    services.NewNewbornService(repositories.Newborn),
		preferenceService: services.NewPreferenceService(repositories.Preferences),

		advisor: options.Advisor,
		vitals:  options.Vitals,

		authLimiter: newAttemptLimiter(authAttemptsLimit, authAttemptsWindow),
	}, nil
}

func (handler *Handler) currentTime() time.Time {
	return handler.now().In(handler.location)
}

func zapUserID(userID uint) zap.Field {
	return zap.Uint("user_id", userID)
}
