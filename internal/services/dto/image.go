package dto

import (
	"mime/multipart"
	"time"

	"archived_backend/internal/models"
)

// UpdateImagesRequest - разобранная multipart-форма PATCH /items/{id}/images.
// Order содержит ID существующих изображений или плейсхолдеры "new-<i>".
type UpdateImagesRequest struct {
	DeletedImageIDs []uint
	NewFiles        []*multipart.FileHeader
	Order           []string
}

type ImageResponse struct {
	ID          uint      `json:"id"`
	ImageURL    string    `json:"image_url"`
	ItemID      uint      `json:"item_id"`
	ImageOrder  int       `json:"image_order"`
	CreatedDate time.Time `json:"created_date"`
	UpdatedDate time.Time `json:"updated_date"`
}

func NewImageResponses(images []models.ItemImage) []*ImageResponse {
	out := make([]*ImageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, &ImageResponse{
			ID:          img.ID,
			ImageURL:    img.ImageURL,
			ItemID:      img.ItemID,
			ImageOrder:  img.ImageOrder,
			CreatedDate: img.CreatedDate,
			UpdatedDate: img.UpdatedDate,
		})
	}
	return out
}
