package repositories

import (
	"errors"

	"archived_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagRepository interface {
	// FindOrCreate возвращает тег с указанным именем, создавая его при отсутствии
	FindOrCreate(db *gorm.DB, name string) (*models.Tag, error)
	ListByItem(db *gorm.DB, itemID uint) ([]models.Tag, error)

	// DeleteUnused удаляет теги, не привязанные ни к одному предмету
	DeleteUnused(db *gorm.DB) (int64, error)
}

type tagRepository struct{}

func NewTagRepository() TagRepository {
	return &tagRepository{}
}

func (r *tagRepository) FindOrCreate(db *gorm.DB, name string) (*models.Tag, error) {
	var tag models.Tag
	err := db.Where("name = ?", name).Take(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// тег мог появиться между SELECT и INSERT, конфликт по name не ошибка
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&models.Tag{Name: name}).Error
	if err != nil {
		return nil, err
	}

	if err := db.Where("name = ?", name).Take(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) ListByItem(db *gorm.DB, itemID uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := db.Model(&models.Tag{}).
		Where("id IN (?)", db.Table("item_tags").Select("tag_id").Where("item_id = ?", itemID)).
		Order("name ASC").
		Find(&tags).Error
	return tags, err
}

func (r *tagRepository) DeleteUnused(db *gorm.DB) (int64, error) {
	result := db.
		Where("id NOT IN (?)", db.Table("item_tags").Distinct("tag_id")).
		Delete(&models.Tag{})
	return result.RowsAffected, result.Error
}
