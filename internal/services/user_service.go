package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "igen/internal/errors"
	"igen/internal/models"
)

const (
	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute
)

// userService handles user-related business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// CreateUser registers a new user and assigns their companies
func (s *userService) CreateUser(req CreateUserRequest) (*models.User, error) {
	userID := strings.ToLower(strings.TrimSpace(req.UserID))
	if userID == "" || req.Password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "user id and password are required")
	}
	if !req.Role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateUserID
	}

	var companies []models.Company
	if len(req.CompanyIDs) > 0 {
		if err := s.db.Where("id IN ?", req.CompanyIDs).Find(&companies).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if len(companies) != len(req.CompanyIDs) {
			return nil, apperrors.ErrCompanyNotFound
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		UserID:    userID,
		Password:  string(hashedPassword),
		FullName:  strings.TrimSpace(req.FullName),
		Role:      req.Role,
		IsActive:  true,
		Companies: companies,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// GetUserByUserID retrieves an active, non-deleted user by login id
func (s *userService) GetUserByUserID(userID string) (*models.User, error) {
	var user models.User
	err := s.db.Scopes(models.NotDeleted).Preload("Companies").
		Where("user_id = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(userID)), true).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a non-deleted user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Scopes(models.NotDeleted).Preload("Companies").First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}

// AttemptLogin checks credentials and applies the failed-login lockout.
func (s *userService) AttemptLogin(userID, password string) (*models.User, error) {
	user, err := s.GetUserByUserID(userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	now := time.Now()
	if user.LockedUntil != nil && user.LockedUntil.After(now) {
		return nil, apperrors.ErrAccountLocked
	}

	if !s.VerifyPassword(user, password) {
		attempts := user.FailedLoginAttempts + 1
		updates := map[string]any{"failed_login_attempts": attempts}
		if attempts >= maxFailedLogins {
			updates["locked_until"] = now.Add(lockoutDuration)
		}
		if err := s.db.Model(user).UpdateColumns(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil, apperrors.ErrInvalidCredentials
	}

	updates := map[string]any{
		"failed_login_attempts": 0,
		"locked_until":          nil,
		"last_login_at":         now,
	}
	if err := s.db.Model(user).UpdateColumns(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	return user, nil
}

// StoreRefreshTokenHash saves the hash of the user's current refresh token
func (s *userService) StoreRefreshTokenHash(id, tokenHash string) error {
	result := s.db.Model(&models.User{}).Where("id = ?", id).UpdateColumn("refresh_token_hash", tokenHash)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// GetRefreshTokenHash returns the stored refresh token hash
func (s *userService) GetRefreshTokenHash(id string) (string, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return "", err
	}
	return user.RefreshTokenHash, nil
}

// DeleteUser soft-deletes a user and revokes their refresh token
func (s *userService) DeleteUser(id string) error {
	now := time.Now()
	result := s.db.Model(&models.User{}).Scopes(models.NotDeleted).Where("id = ?", id).UpdateColumns(map[string]any{
		"is_deleted":         true,
		"deleted_at":         now,
		"is_active":          false,
		"refresh_token_hash": "",
	})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
