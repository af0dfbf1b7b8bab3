package dto

import (
	"time"

	"archived_backend/internal/models"
)

// CollectionRequest используется и для создания, и для PATCH (поля заменяются целиком)
type CollectionRequest struct {
	Name        string  `json:"name" validate:"required,notblank,max=255"`
	Description *string `json:"description"`
}

type ItemOrderRequest struct {
	ItemIDs []uint `json:"item_ids" validate:"required,min=1,unique,dive,gt=0"`
}

type CollectionResponse struct {
	ID              uint            `json:"id"`
	Name            string          `json:"name"`
	Description     *string         `json:"description"`
	OwnerID         uint            `json:"owner_id"`
	CollectionOrder int             `json:"collection_order"`
	CreatedDate     time.Time       `json:"created_date"`
	UpdatedDate     time.Time       `json:"updated_date"`
	Items           []*ItemResponse `json:"items"`
}

func NewCollectionResponse(c *models.Collection) *CollectionResponse {
	return &CollectionResponse{
		ID:              c.ID,
		Name:            c.Name,
		Description:     c.Description,
		OwnerID:         c.OwnerID,
		CollectionOrder: c.CollectionOrder,
		CreatedDate:     c.CreatedDate,
		UpdatedDate:     c.UpdatedDate,
		Items:           NewItemResponses(c.Items),
	}
}

func NewCollectionResponses(collections []models.Collection) []*CollectionResponse {
	out := make([]*CollectionResponse, 0, len(collections))
	for i := range collections {
		out = append(out, NewCollectionResponse(&collections[i]))
	}
	return out
}
