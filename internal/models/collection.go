package models

type Collection struct {
	BaseModel
	Name            string  `gorm:"size:255;not null;index"`
	Description     *string `gorm:"type:text"`
	OwnerID         uint    `gorm:"not null;index"`
	CollectionOrder int     `gorm:"not null;default:0"`

	// Relations
	Items []Item           `gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE"`
	Share *CollectionShare `gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE"`
}

// CollectionShare - публичная ссылка на коллекцию, одна на коллекцию
type CollectionShare struct {
	BaseModel
	CollectionID uint   `gorm:"not null;uniqueIndex"`
	Token        string `gorm:"size:64;not null;uniqueIndex"`
	IsEnabled    bool   `gorm:"not null;default:true"`
}
