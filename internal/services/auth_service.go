package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/cradle/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrRecoveryCodeNotFound      = errors.New("recovery code not found")
	ErrAuthEmailExists           = errors.New("email already exists")
	ErrAuthInvalidCredentials    = errors.New("invalid credentials")
	ErrAuthPasswordChangeNeeded  = errors.New("password change required")
	ErrAuthInvalidCurrentPass    = errors.New("invalid current password")
	ErrAuthNewPasswordMustDiffer = errors.New("new password must differ")
	ErrUserNotFound              = errors.New("user not found")
)

type AuthUserRepository interface {
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	Create(user *models.User) error
	ListWithRecoveryCodeHash() ([]models.User, error)
	UpdateRecoveryCodeHash(userID uint, recoveryHash string) error
	UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error
	DeleteAccountAndRelatedData(userID uint) error
}

type AuthService struct {
	users AuthUserRepository
	cost  int
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users, cost: bcrypt.DefaultCost}
}

// WithHashCost lowers the bcrypt cost, for tests.
func (service *AuthService) WithHashCost(cost int) *AuthService {
	service.cost = cost
	return service
}

// Register creates an account and returns the plain recovery code, which is
// shown once and only stored hashed.
func (service *AuthService) Register(emailRaw string, password string, confirmPassword string, now time.Time) (models.User, string, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, password)
	if err != nil {
		return models.User{}, "", err
	}
	if err := ValidateNewPasswordPair(password, confirmPassword); err != nil {
		return models.User{}, "", err
	}

	exists, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return models.User{}, "", ErrAuthEmailExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), service.cost)
	if err != nil {
		return models.User{}, "", fmt.Errorf("hash password: %w", err)
	}
	recoveryCode, recoveryHash, err := GenerateRecoveryCodeHash(service.cost)
	if err != nil {
		return models.User{}, "", fmt.Errorf("generate recovery code: %w", err)
	}

	user := models.User{
		Email:            email,
		PasswordHash:     string(passwordHash),
		RecoveryCodeHash: recoveryHash,
		CycleLength:      models.DefaultCycleLength,
		PeriodLength:     models.DefaultPeriodLength,
		CreatedAt:        now,
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, "", ErrAuthEmailExists
	}
	return user, recoveryCode, nil
}

// Authenticate returns ErrAuthPasswordChangeNeeded together with the user when
// an operator reset forces a new password.
func (service *AuthService) Authenticate(emailRaw string, password string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, password)
	if err != nil {
		return models.User{}, ErrAuthInvalidCredentials
	}

	user, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrAuthInvalidCredentials
		}
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrAuthInvalidCredentials
	}
	if user.MustChangePassword {
		return user, ErrAuthPasswordChangeNeeded
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	user, err := service.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

func (service *AuthService) FindUserByRecoveryCode(rawCode string) (*models.User, error) {
	code := NormalizeRecoveryCode(rawCode)
	if err := ValidateRecoveryCodeFormat(code); err != nil {
		return nil, err
	}

	users, err := service.users.ListWithRecoveryCodeHash()
	if err != nil {
		return nil, err
	}
	for index := range users {
		hash := strings.TrimSpace(users[index].RecoveryCodeHash)
		if hash == "" {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil {
			return &users[index], nil
		}
	}
	return nil, ErrRecoveryCodeNotFound
}

// ResetPassword applies a new password for a validated reset token and
// rotates the recovery code.
func (service *AuthService) ResetPassword(claims *PasswordResetClaims, password string, confirmPassword string) (string, error) {
	user, err := service.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrPasswordResetTokenInvalid
		}
		return "", err
	}
	if !IsPasswordStateFingerprintMatch(claims.PasswordState, user.PasswordHash) {
		return "", ErrPasswordResetTokenInvalid
	}
	if err := ValidateNewPasswordPair(password, confirmPassword); err != nil {
		return "", err
	}
	if err := service.storePassword(user.ID, strings.TrimSpace(password)); err != nil {
		return "", err
	}
	return service.RegenerateRecoveryCode(user.ID)
}

func (service *AuthService) ChangePassword(user *models.User, currentPassword string, newPassword string, confirmPassword string) error {
	currentPassword = strings.TrimSpace(currentPassword)
	newPassword = strings.TrimSpace(newPassword)
	if currentPassword == "" || newPassword == "" {
		return ErrAuthCredentialsInvalid
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return ErrAuthInvalidCurrentPass
	}
	if currentPassword == newPassword {
		return ErrAuthNewPasswordMustDiffer
	}
	if err := ValidateNewPasswordPair(newPassword, confirmPassword); err != nil {
		return err
	}
	return service.storePassword(user.ID, newPassword)
}

// SetTemporaryPassword is the operator reset path; the user must pick a new
// password on next login.
func (service *AuthService) SetTemporaryPassword(userID uint, password string, mustChange bool) error {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), service.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return service.users.UpdatePassword(userID, string(passwordHash), mustChange)
}

func (service *AuthService) RegenerateRecoveryCode(userID uint) (string, error) {
	code, hash, err := GenerateRecoveryCodeHash(service.cost)
	if err != nil {
		return "", fmt.Errorf("generate recovery code: %w", err)
	}
	if err := service.users.UpdateRecoveryCodeHash(userID, hash); err != nil {
		return "", fmt.Errorf("store recovery code: %w", err)
	}
	return code, nil
}

func (service *AuthService) DeleteAccount(user *models.User, password string) error {
	password = strings.TrimSpace(password)
	if password == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return ErrAuthInvalidCurrentPass
	}
	return service.users.DeleteAccountAndRelatedData(user.ID)
}

func (service *AuthService) storePassword(userID uint, password string) error {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), service.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := service.users.UpdatePassword(userID, string(passwordHash), false); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	return nil
}
