package services

import (
	"errors"
	"time"

	"archived_backend/internal/auth"
	"archived_backend/internal/models"
	"archived_backend/internal/repositories"
	"archived_backend/internal/services/dto"
	"archived_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(db *gorm.DB, refreshToken string) (*dto.TokenResponse, error)
	Logout(db *gorm.DB, refreshToken string) error

	// Authenticate проверяет access-токен и возвращает его владельца
	Authenticate(db *gorm.DB, accessToken string) (*models.User, error)
}

type AuthServiceImpl struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	tokens           *auth.TokenManager
	now              func() time.Time
}

func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	tokens *auth.TokenManager,
) AuthService {
	return &AuthServiceImpl{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		tokens:           tokens,
		now:              time.Now,
	}
}

// Register - регистрация нового пользователя
func (s *AuthServiceImpl) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	taken, err := s.userRepo.ExistsByUsername(tx, req.Username, 0)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if taken {
		return nil, apperrors.ErrUsernameRegistered
	}

	taken, err = s.userRepo.ExistsByEmail(tx, req.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if taken {
		return nil, apperrors.ErrEmailRegistered
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(tx, user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewUserResponse(user), nil
}

// Login - выдача пары токенов по логину и паролю
func (s *AuthServiceImpl) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByUsername(db, req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueTokens(db, user)
}

// RefreshToken - ротация: старый refresh-токен удаляется, выдается новая пара
func (s *AuthServiceImpl) RefreshToken(db *gorm.DB, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}
	userID, _ := claims.UserID()

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	stored, err := s.refreshTokenRepo.FindByToken(tx, refreshToken)
	if err != nil {
		if errors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, apperrors.InternalError(err)
	}
	if stored.UserID != userID || s.now().After(stored.ExpiresAt) {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(tx, stored.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, apperrors.InternalError(err)
	}

	// Параллельный refresh тем же токеном получит ErrRefreshTokenNotFound
	if err := s.refreshTokenRepo.DeleteByToken(tx, refreshToken); err != nil {
		if errors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, apperrors.InternalError(err)
	}

	resp, err := s.issueTokens(tx, user)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return resp, nil
}

// Logout отзывает refresh-токен. Повторный вызов не ошибка.
func (s *AuthServiceImpl) Logout(db *gorm.DB, refreshToken string) error {
	err := s.refreshTokenRepo.DeleteByToken(db, refreshToken)
	if err != nil && !errors.Is(err, repositories.ErrRefreshTokenNotFound) {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthServiceImpl) Authenticate(db *gorm.DB, accessToken string) (*models.User, error) {
	claims, err := s.tokens.ParseAccessToken(accessToken)
	if err != nil {
		return nil, apperrors.ErrInvalidAccessToken
	}
	userID, _ := claims.UserID()

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidAccessToken
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

// issueTokens выпускает access и refresh токены и сохраняет refresh в БД
func (s *AuthServiceImpl) issueTokens(db *gorm.DB, user *models.User) (*dto.TokenResponse, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken, expiresAt, err := s.tokens.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.refreshTokenRepo.Create(db, &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: expiresAt,
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    dto.TokenTypeBearer,
	}, nil
}
