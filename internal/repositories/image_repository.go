package repositories

import (
	"errors"

	"archived_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrImageNotFound = errors.New("image not found")
)

type ImageRepository interface {
	Create(db *gorm.DB, image *models.ItemImage) error
	FindByID(db *gorm.DB, id uint) (*models.ItemImage, error)
	ListByItem(db *gorm.DB, itemID uint) ([]models.ItemImage, error)
	IDsByItem(db *gorm.DB, itemID uint) ([]uint, error)

	// NextOrder возвращает MAX(image_order)+1 для предмета
	NextOrder(db *gorm.DB, itemID uint) (int, error)

	// FindByIDsForItem возвращает найденные изображения из ids, принадлежащие предмету
	FindByIDsForItem(db *gorm.DB, ids []uint, itemID uint) ([]models.ItemImage, error)
	UpdateOrder(db *gorm.DB, id uint, order int) error
	Delete(db *gorm.DB, id uint) error
	DeleteByIDs(db *gorm.DB, ids []uint) error

	// URL файлов, которые нужно удалить из хранилища при каскадном удалении
	URLsByItem(db *gorm.DB, itemID uint) ([]string, error)
	URLsByCollection(db *gorm.DB, collectionID uint) ([]string, error)
	URLsByOwner(db *gorm.DB, ownerID uint) ([]string, error)
}

type imageRepository struct{}

func NewImageRepository() ImageRepository {
	return &imageRepository{}
}

func (r *imageRepository) Create(db *gorm.DB, image *models.ItemImage) error {
	return db.Create(image).Error
}

func (r *imageRepository) FindByID(db *gorm.DB, id uint) (*models.ItemImage, error) {
	var image models.ItemImage
	if err := db.First(&image, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return &image, nil
}

func (r *imageRepository) ListByItem(db *gorm.DB, itemID uint) ([]models.ItemImage, error) {
	var images []models.ItemImage
	err := db.Where("item_id = ?", itemID).
		Order("image_order ASC, id ASC").
		Find(&images).Error
	return images, err
}

func (r *imageRepository) IDsByItem(db *gorm.DB, itemID uint) ([]uint, error) {
	var ids []uint
	err := db.Model(&models.ItemImage{}).
		Where("item_id = ?", itemID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *imageRepository) NextOrder(db *gorm.DB, itemID uint) (int, error) {
	var maxOrder int
	err := db.Model(&models.ItemImage{}).
		Where("item_id = ?", itemID).
		Select("COALESCE(MAX(image_order), 0)").
		Scan(&maxOrder).Error
	if err != nil {
		return 0, err
	}
	return maxOrder + 1, nil
}

func (r *imageRepository) FindByIDsForItem(db *gorm.DB, ids []uint, itemID uint) ([]models.ItemImage, error) {
	var images []models.ItemImage
	if len(ids) == 0 {
		return images, nil
	}
	err := db.Where("id IN ? AND item_id = ?", ids, itemID).
		Find(&images).Error
	return images, err
}

func (r *imageRepository) UpdateOrder(db *gorm.DB, id uint, order int) error {
	return db.Model(&models.ItemImage{}).
		Where("id = ?", id).
		Update("image_order", order).Error
}

func (r *imageRepository) Delete(db *gorm.DB, id uint) error {
	result := db.Delete(&models.ItemImage{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrImageNotFound
	}
	return nil
}

func (r *imageRepository) DeleteByIDs(db *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return db.Where("id IN ?", ids).Delete(&models.ItemImage{}).Error
}

func (r *imageRepository) URLsByItem(db *gorm.DB, itemID uint) ([]string, error) {
	var urls []string
	err := db.Model(&models.ItemImage{}).
		Where("item_id = ?", itemID).
		Pluck("image_url", &urls).Error
	return urls, err
}

func (r *imageRepository) URLsByCollection(db *gorm.DB, collectionID uint) ([]string, error) {
	var urls []string
	err := db.Model(&models.ItemImage{}).
		Where("item_id IN (?)", db.Model(&models.Item{}).Select("id").Where("collection_id = ?", collectionID)).
		Pluck("image_url", &urls).Error
	return urls, err
}

func (r *imageRepository) URLsByOwner(db *gorm.DB, ownerID uint) ([]string, error) {
	var urls []string
	err := db.Model(&models.ItemImage{}).
		Where("item_id IN (?)", ownedItemIDs(db, ownerID)).
		Pluck("image_url", &urls).Error
	return urls, err
}

// ownedItemIDs - подзапрос id предметов из коллекций пользователя
func ownedItemIDs(db *gorm.DB, ownerID uint) *gorm.DB {
	return db.Model(&models.Item{}).
		Select("id").
		Where("collection_id IN (?)", db.Model(&models.Collection{}).Select("id").Where("owner_id = ?", ownerID))
}
