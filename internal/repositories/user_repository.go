package repositories

import (
	"errors"

	"archived_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id uint) (*models.User, error)
	FindByUsername(db *gorm.DB, username string) (*models.User, error)

	// ExistsByUsername проверяет занятость имени; excludeID исключает самого пользователя (0 - не исключать)
	ExistsByUsername(db *gorm.DB, username string, excludeID uint) (bool, error)
	ExistsByEmail(db *gorm.DB, email string) (bool, error)

	UpdateUsername(db *gorm.DB, user *models.User, username string) error
	UpdatePassword(db *gorm.DB, user *models.User, passwordHash string) error

	// Delete удаляет пользователя вместе с коллекциями, предметами, изображениями,
	// ссылками на теги, публичными ссылками и refresh-токенами
	Delete(db *gorm.DB, id uint) error
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	return db.Create(user).Error
}

func (r *userRepository) FindByID(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(db *gorm.DB, username string) (*models.User, error) {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByUsername(db *gorm.DB, username string, excludeID uint) (bool, error) {
	var count int64
	query := db.Model(&models.User{}).Where("username = ?", username)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *userRepository) ExistsByEmail(db *gorm.DB, email string) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) UpdateUsername(db *gorm.DB, user *models.User, username string) error {
	if err := db.Model(user).Update("username", username).Error; err != nil {
		return err
	}
	user.Username = username
	return nil
}

func (r *userRepository) UpdatePassword(db *gorm.DB, user *models.User, passwordHash string) error {
	if err := db.Model(user).Update("hashed_password", passwordHash).Error; err != nil {
		return err
	}
	user.PasswordHash = passwordHash
	return nil
}

func (r *userRepository) Delete(db *gorm.DB, id uint) error {
	collectionIDs := db.Model(&models.Collection{}).Select("id").Where("owner_id = ?", id)

	if err := deleteCollectionsContent(db, collectionIDs); err != nil {
		return err
	}
	if err := db.Where("owner_id = ?", id).Delete(&models.Collection{}).Error; err != nil {
		return err
	}
	if err := db.Where("user_id = ?", id).Delete(&models.RefreshToken{}).Error; err != nil {
		return err
	}

	result := db.Delete(&models.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
