package repositories

import (
	"errors"
	"time"

	"archived_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrItemNotFound = errors.New("item not found")
)

type ItemRepository interface {
	Create(db *gorm.DB, item *models.Item) error

	// NextOrder возвращает MAX(item_order)+1 внутри коллекции
	NextOrder(db *gorm.DB, collectionID uint) (int, error)

	// FindByIDForOwner ищет предмет, коллекция которого принадлежит ownerID
	FindByIDForOwner(db *gorm.DB, id, ownerID uint) (*models.Item, error)
	// FindInCollection ищет предмет строго внутри указанной коллекции
	FindInCollection(db *gorm.DB, id, collectionID uint) (*models.Item, error)
	ListByCollection(db *gorm.DB, collectionID uint) ([]models.Item, error)
	IDsByCollection(db *gorm.DB, collectionID uint) ([]uint, error)

	Update(db *gorm.DB, item *models.Item, name string, description *string) error
	UpdateOrder(db *gorm.DB, collectionID uint, ids []uint) error
	Touch(db *gorm.DB, id uint) error

	// Delete удаляет предмет, его изображения и связи с тегами
	Delete(db *gorm.DB, id uint) error

	// LinkTags привязывает теги к предмету, пропуская уже привязанные
	LinkTags(db *gorm.DB, itemID uint, tagIDs []uint) error
	ClearTags(db *gorm.DB, itemID uint) error
}

type itemRepository struct{}

func NewItemRepository() ItemRepository {
	return &itemRepository{}
}

// withItemContent подгружает изображения по порядку и теги по имени
func withItemContent(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("image_order ASC, id ASC")
		}).
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name ASC")
		})
}

func (r *itemRepository) Create(db *gorm.DB, item *models.Item) error {
	return db.Create(item).Error
}

func (r *itemRepository) NextOrder(db *gorm.DB, collectionID uint) (int, error) {
	var maxOrder int
	err := db.Model(&models.Item{}).
		Where("collection_id = ?", collectionID).
		Select("COALESCE(MAX(item_order), 0)").
		Scan(&maxOrder).Error
	if err != nil {
		return 0, err
	}
	return maxOrder + 1, nil
}

func (r *itemRepository) FindByIDForOwner(db *gorm.DB, id, ownerID uint) (*models.Item, error) {
	var item models.Item
	err := withItemContent(db).
		Where("id = ? AND collection_id IN (?)", id,
			db.Model(&models.Collection{}).Select("id").Where("owner_id = ?", ownerID)).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) FindInCollection(db *gorm.DB, id, collectionID uint) (*models.Item, error) {
	var item models.Item
	err := withItemContent(db).
		Where("id = ? AND collection_id = ?", id, collectionID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) ListByCollection(db *gorm.DB, collectionID uint) ([]models.Item, error) {
	var items []models.Item
	err := withItemContent(db).
		Where("collection_id = ?", collectionID).
		Order("item_order ASC, id ASC").
		Find(&items).Error
	return items, err
}

func (r *itemRepository) IDsByCollection(db *gorm.DB, collectionID uint) ([]uint, error) {
	var ids []uint
	err := db.Model(&models.Item{}).
		Where("collection_id = ?", collectionID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *itemRepository) Update(db *gorm.DB, item *models.Item, name string, description *string) error {
	return db.Model(item).
		Select("name", "description").
		Updates(map[string]interface{}{
			"name":        name,
			"description": description,
		}).Error
}

// UpdateOrder выставляет item_order по позиции в списке (с нуля)
func (r *itemRepository) UpdateOrder(db *gorm.DB, collectionID uint, ids []uint) error {
	for order, id := range ids {
		if err := db.Model(&models.Item{}).
			Where("id = ? AND collection_id = ?", id, collectionID).
			Update("item_order", order).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *itemRepository) Touch(db *gorm.DB, id uint) error {
	return db.Model(&models.Item{}).
		Where("id = ?", id).
		Update("updated_date", time.Now()).Error
}

func (r *itemRepository) Delete(db *gorm.DB, id uint) error {
	if err := db.Exec("DELETE FROM item_tags WHERE item_id = ?", id).Error; err != nil {
		return err
	}
	if err := db.Where("item_id = ?", id).Delete(&models.ItemImage{}).Error; err != nil {
		return err
	}

	result := db.Delete(&models.Item{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *itemRepository) LinkTags(db *gorm.DB, itemID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}

	var linked []uint
	if err := db.Table("item_tags").Where("item_id = ?", itemID).Pluck("tag_id", &linked).Error; err != nil {
		return err
	}
	exists := make(map[uint]bool, len(linked))
	for _, id := range linked {
		exists[id] = true
	}

	for _, tagID := range tagIDs {
		if exists[tagID] {
			continue
		}
		if err := db.Exec("INSERT INTO item_tags (item_id, tag_id) VALUES (?, ?)", itemID, tagID).Error; err != nil {
			return err
		}
		exists[tagID] = true
	}
	return nil
}

func (r *itemRepository) ClearTags(db *gorm.DB, itemID uint) error {
	return db.Exec("DELETE FROM item_tags WHERE item_id = ?", itemID).Error
}
