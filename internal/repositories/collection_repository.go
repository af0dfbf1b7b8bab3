package repositories

import (
	"errors"
	"time"

	"archived_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCollectionNotFound = errors.New("collection not found")
)

type CollectionRepository interface {
	Create(db *gorm.DB, collection *models.Collection) error

	// NextOrder возвращает MAX(collection_order)+1 среди коллекций владельца
	NextOrder(db *gorm.DB, ownerID uint) (int, error)

	// FindByIDForOwner загружает коллекцию с предметами, только если она принадлежит ownerID
	FindByIDForOwner(db *gorm.DB, id, ownerID uint) (*models.Collection, error)
	FindByID(db *gorm.DB, id uint) (*models.Collection, error)
	ListByOwner(db *gorm.DB, ownerID uint) ([]models.Collection, error)
	IDsByOwner(db *gorm.DB, ownerID uint) ([]uint, error)

	Update(db *gorm.DB, collection *models.Collection, name string, description *string) error
	UpdateOrder(db *gorm.DB, ownerID uint, ids []uint) error
	Touch(db *gorm.DB, id uint) error

	// Delete удаляет коллекцию вместе с содержимым и публичной ссылкой
	Delete(db *gorm.DB, id uint) error
}

type collectionRepository struct{}

func NewCollectionRepository() CollectionRepository {
	return &collectionRepository{}
}

// withContent подгружает предметы, их изображения и теги в нужном порядке
func withContent(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("item_order ASC, id ASC")
		}).
		Preload("Items.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("image_order ASC, id ASC")
		}).
		Preload("Items.Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name ASC")
		})
}

func (r *collectionRepository) Create(db *gorm.DB, collection *models.Collection) error {
	return db.Create(collection).Error
}

func (r *collectionRepository) NextOrder(db *gorm.DB, ownerID uint) (int, error) {
	var maxOrder int
	err := db.Model(&models.Collection{}).
		Where("owner_id = ?", ownerID).
		Select("COALESCE(MAX(collection_order), 0)").
		Scan(&maxOrder).Error
	if err != nil {
		return 0, err
	}
	return maxOrder + 1, nil
}

func (r *collectionRepository) FindByIDForOwner(db *gorm.DB, id, ownerID uint) (*models.Collection, error) {
	var collection models.Collection
	err := withContent(db).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&collection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectionNotFound
		}
		return nil, err
	}
	return &collection, nil
}

func (r *collectionRepository) FindByID(db *gorm.DB, id uint) (*models.Collection, error) {
	var collection models.Collection
	if err := withContent(db).First(&collection, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectionNotFound
		}
		return nil, err
	}
	return &collection, nil
}

func (r *collectionRepository) ListByOwner(db *gorm.DB, ownerID uint) ([]models.Collection, error) {
	var collections []models.Collection
	err := withContent(db).
		Where("owner_id = ?", ownerID).
		Order("collection_order ASC, id ASC").
		Find(&collections).Error
	return collections, err
}

func (r *collectionRepository) IDsByOwner(db *gorm.DB, ownerID uint) ([]uint, error) {
	var ids []uint
	err := db.Model(&models.Collection{}).
		Where("owner_id = ?", ownerID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *collectionRepository) Update(db *gorm.DB, collection *models.Collection, name string, description *string) error {
	return db.Model(collection).
		Select("name", "description").
		Updates(map[string]interface{}{
			"name":        name,
			"description": description,
		}).Error
}

// UpdateOrder выставляет collection_order по позиции в списке (с нуля)
func (r *collectionRepository) UpdateOrder(db *gorm.DB, ownerID uint, ids []uint) error {
	for order, id := range ids {
		if err := db.Model(&models.Collection{}).
			Where("id = ? AND owner_id = ?", id, ownerID).
			Update("collection_order", order).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *collectionRepository) Touch(db *gorm.DB, id uint) error {
	return db.Model(&models.Collection{}).
		Where("id = ?", id).
		Update("updated_date", time.Now()).Error
}

func (r *collectionRepository) Delete(db *gorm.DB, id uint) error {
	collectionIDs := db.Model(&models.Collection{}).Select("id").Where("id = ?", id)
	if err := deleteCollectionsContent(db, collectionIDs); err != nil {
		return err
	}

	result := db.Delete(&models.Collection{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCollectionNotFound
	}
	return nil
}

// deleteCollectionsContent удаляет все, что висит на коллекциях из подзапроса:
// связи с тегами, изображения, предметы и публичные ссылки
func deleteCollectionsContent(db *gorm.DB, collectionIDs *gorm.DB) error {
	itemIDs := db.Model(&models.Item{}).Select("id").Where("collection_id IN (?)", collectionIDs)

	if err := db.Exec("DELETE FROM item_tags WHERE item_id IN (?)", itemIDs).Error; err != nil {
		return err
	}
	if err := db.Where("item_id IN (?)", itemIDs).Delete(&models.ItemImage{}).Error; err != nil {
		return err
	}
	if err := db.Where("collection_id IN (?)", collectionIDs).Delete(&models.Item{}).Error; err != nil {
		return err
	}
	return db.Where("collection_id IN (?)", collectionIDs).Delete(&models.CollectionShare{}).Error
}
