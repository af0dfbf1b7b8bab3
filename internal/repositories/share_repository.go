package repositories

import (
	"errors"

	"archived_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrShareNotFound = errors.New("share link not found")
)

type ShareRepository interface {
	Create(db *gorm.DB, share *models.CollectionShare) error
	Save(db *gorm.DB, share *models.CollectionShare) error
	FindByCollection(db *gorm.DB, collectionID uint) (*models.CollectionShare, error)

	// FindByCollectionForOwner учитывает владельца коллекции
	FindByCollectionForOwner(db *gorm.DB, collectionID, ownerID uint) (*models.CollectionShare, error)

	// FindEnabledByToken возвращает только включенную ссылку
	FindEnabledByToken(db *gorm.DB, token string) (*models.CollectionShare, error)
}

type shareRepository struct{}

func NewShareRepository() ShareRepository {
	return &shareRepository{}
}

func (r *shareRepository) Create(db *gorm.DB, share *models.CollectionShare) error {
	return db.Create(share).Error
}

func (r *shareRepository) Save(db *gorm.DB, share *models.CollectionShare) error {
	return db.Save(share).Error
}

func (r *shareRepository) FindByCollection(db *gorm.DB, collectionID uint) (*models.CollectionShare, error) {
	return r.first(db.Where("collection_id = ?", collectionID))
}

func (r *shareRepository) FindByCollectionForOwner(db *gorm.DB, collectionID, ownerID uint) (*models.CollectionShare, error) {
	return r.first(db.Where("collection_id = ? AND collection_id IN (?)", collectionID,
		db.Model(&models.Collection{}).Select("id").Where("owner_id = ?", ownerID)))
}

func (r *shareRepository) FindEnabledByToken(db *gorm.DB, token string) (*models.CollectionShare, error) {
	return r.first(db.Where("token = ? AND is_enabled = ?", token, true))
}

func (r *shareRepository) first(query *gorm.DB) (*models.CollectionShare, error) {
	var share models.CollectionShare
	if err := query.First(&share).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShareNotFound
		}
		return nil, err
	}
	return &share, nil
}
