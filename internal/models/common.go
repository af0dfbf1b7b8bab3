package models

import (
	"time"
)

type BaseModel struct {
	ID          uint      `gorm:"primaryKey"`
	CreatedDate time.Time `gorm:"column:created_date;autoCreateTime;not null"`
	UpdatedDate time.Time `gorm:"column:updated_date;autoUpdateTime;not null"`
}

// AllModels - все модели для AutoMigrate и сброса БД
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&RefreshToken{},
		&Collection{},
		&Item{},
		&ItemImage{},
		&Tag{},
		&CollectionShare{},
	}
}
