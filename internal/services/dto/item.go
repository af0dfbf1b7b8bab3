package dto

import (
	"time"

	"archived_backend/internal/models"
)

type ItemRequest struct {
	Name        string  `json:"name" validate:"required,notblank,max=255"`
	Description *string `json:"description"`
}

type AddTagsRequest struct {
	Tags []string `json:"tags" validate:"required,dive,max=100"`
}

type ItemResponse struct {
	ID           uint             `json:"id"`
	Name         string           `json:"name"`
	Description  *string          `json:"description"`
	CollectionID uint             `json:"collection_id"`
	ItemOrder    int              `json:"item_order"`
	CreatedDate  time.Time        `json:"created_date"`
	UpdatedDate  time.Time        `json:"updated_date"`
	Images       []*ImageResponse `json:"images"`
	Tags         []*TagResponse   `json:"tags"`
}

type TagResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func NewItemResponse(item *models.Item) *ItemResponse {
	return &ItemResponse{
		ID:           item.ID,
		Name:         item.Name,
		Description:  item.Description,
		CollectionID: item.CollectionID,
		ItemOrder:    item.ItemOrder,
		CreatedDate:  item.CreatedDate,
		UpdatedDate:  item.UpdatedDate,
		Images:       NewImageResponses(item.Images),
		Tags:         NewTagResponses(item.Tags),
	}
}

func NewItemResponses(items []models.Item) []*ItemResponse {
	out := make([]*ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, NewItemResponse(&items[i]))
	}
	return out
}

func NewTagResponses(tags []models.Tag) []*TagResponse {
	out := make([]*TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, &TagResponse{ID: t.ID, Name: t.Name})
	}
	return out
}
