package services

import (
	"context"
	"errors"

	"archived_backend/internal/auth"
	"archived_backend/internal/logger"
	"archived_backend/internal/models"
	"archived_backend/internal/repositories"
	"archived_backend/internal/services/dto"
	"archived_backend/internal/storage"
	"archived_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	GetUser(db *gorm.DB, userID uint) (*dto.UserResponse, error)
	UpdateUsername(db *gorm.DB, userID uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error)

	// ChangePassword меняет пароль и отзывает все refresh-токены пользователя
	ChangePassword(db *gorm.DB, userID uint, req *dto.ChangePasswordRequest) error

	// DeleteAccount удаляет пользователя со всеми данными и файлами изображений
	DeleteAccount(ctx context.Context, db *gorm.DB, userID uint, currentPassword string) error
}

type userService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	imageRepo        repositories.ImageRepository
	storage          storage.Storage
}

func NewUserService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	imageRepo repositories.ImageRepository,
	storage storage.Storage,
) UserService {
	return &userService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		imageRepo:        imageRepo,
		storage:          storage,
	}
}

func (s *userService) GetUser(db *gorm.DB, userID uint) (*dto.UserResponse, error) {
	user, err := s.findUser(db, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *userService) UpdateUsername(db *gorm.DB, userID uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.checkPassword(tx, userID, req.CurrentPassword)
	if err != nil {
		return nil, err
	}

	taken, err := s.userRepo.ExistsByUsername(tx, req.NewUsername, user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if taken {
		return nil, apperrors.ErrUsernameTaken
	}

	if err := s.userRepo.UpdateUsername(tx, user, req.NewUsername); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewUserResponse(user), nil
}

func (s *userService) ChangePassword(db *gorm.DB, userID uint, req *dto.ChangePasswordRequest) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.checkPassword(tx, userID, req.CurrentPassword)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.UpdatePassword(tx, user, hash); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.refreshTokenRepo.DeleteByUserID(tx, user.ID); err != nil {
		return apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *userService) DeleteAccount(ctx context.Context, db *gorm.DB, userID uint, currentPassword string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.checkPassword(tx, userID, currentPassword)
	if err != nil {
		return err
	}

	urls, err := s.imageRepo.URLsByOwner(tx, user.ID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.Delete(tx, user.ID); err != nil {
		return apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "User account deleted", "user_id", user.ID, "images", len(urls))
	removeStoredFiles(ctx, s.storage, urls)
	return nil
}

func (s *userService) findUser(db *gorm.DB, userID uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidAccessToken
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

// checkPassword загружает пользователя и сверяет текущий пароль
func (s *userService) checkPassword(db *gorm.DB, userID uint, password string) (*models.User, error) {
	user, err := s.findUser(db, userID)
	if err != nil {
		return nil, err
	}
	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrIncorrectPassword
	}
	return user, nil
}
