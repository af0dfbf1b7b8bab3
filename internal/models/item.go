package models

type Item struct {
	BaseModel
	Name         string  `gorm:"size:255;not null;index"`
	Description  *string `gorm:"type:text"`
	CollectionID uint    `gorm:"not null;index"`
	ItemOrder    int     `gorm:"not null;default:0"`

	// Relations
	Images []ItemImage `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	Tags   []Tag       `gorm:"many2many:item_tags;constraint:OnDelete:CASCADE"`
}

type ItemImage struct {
	BaseModel
	ImageURL   string `gorm:"size:1024;not null"`
	ItemID     uint   `gorm:"not null;index"`
	ImageOrder int    `gorm:"not null;default:0"`
}

type Tag struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;not null;uniqueIndex"`

	Items []Item `gorm:"many2many:item_tags"`
}
