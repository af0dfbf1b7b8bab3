package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"archived_backend/internal/services"
	"archived_backend/internal/services/dto"
	"archived_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const (
	uploadFilesField    = "files"
	deletedImagesField  = "deleted_item_images"
	newFilesField       = "new_files"
	newImagesOrderField = "new_images_order"
)

type ImageHandler struct {
	*BaseHandler
	imageService services.ImageService
}

func NewImageHandler(base *BaseHandler, imageService services.ImageService) *ImageHandler {
	return &ImageHandler{
		BaseHandler:  base,
		imageService: imageService,
	}
}

func (h *ImageHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	items := rg.Group("/items")
	items.Use(authMiddleware)
	{
		items.GET("/:id/images", h.ListImages)
		items.POST("/:id/images/upload", h.UploadImages)
		items.PATCH("/:id/images", h.UpdateImages)
	}

	images := rg.Group("/images")
	images.Use(authMiddleware)
	{
		images.DELETE("/:id", h.DeleteImage)
	}
}

func (h *ImageHandler) pathParams(c *gin.Context) (userID, id uint, ok bool) {
	userID, ok = h.GetAndAuthorizeUserID(c)
	if !ok {
		return 0, 0, false
	}

	id, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return 0, 0, false
	}

	return userID, id, true
}

func (h *ImageHandler) ListImages(c *gin.Context) {
	userID, itemID, ok := h.pathParams(c)
	if !ok {
		return
	}

	images, err := h.imageService.ListImages(h.GetDB(c), userID, itemID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, images)
}

// UploadImages - multipart, поле files (одно или несколько)
func (h *ImageHandler) UploadImages(c *gin.Context) {
	userID, itemID, ok := h.pathParams(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		h.HandleServiceError(c, multipartError(err))
		return
	}

	files := form.File[uploadFilesField]
	if len(files) == 0 {
		h.HandleServiceError(c, apperrors.ErrNoFilesProvided)
		return
	}

	images, err := h.imageService.UploadImages(c.Request.Context(), h.GetDB(c), userID, itemID, files)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, images)
}

// UpdateImages - multipart с повторяющимися полями deleted_item_images,
// new_files и new_images_order. Все поля необязательны.
func (h *ImageHandler) UpdateImages(c *gin.Context) {
	userID, itemID, ok := h.pathParams(c)
	if !ok {
		return
	}

	req := &dto.UpdateImagesRequest{}
	form, err := c.MultipartForm()
	switch {
	case err == nil:
		deleted, err := parseIDList(form.Value[deletedImagesField])
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		req.DeletedImageIDs = deleted
		req.NewFiles = form.File[newFilesField]
		req.Order = trimValues(form.Value[newImagesOrderField])
	case errors.Is(err, http.ErrNotMultipart):
		// пустой PATCH без формы - ничего не меняем, возвращаем текущие изображения
	default:
		h.HandleServiceError(c, multipartError(err))
		return
	}

	images, err := h.imageService.UpdateImages(c.Request.Context(), h.GetDB(c), userID, itemID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, images)
}

func (h *ImageHandler) DeleteImage(c *gin.Context) {
	userID, imageID, ok := h.pathParams(c)
	if !ok {
		return
	}

	if err := h.imageService.DeleteImage(c.Request.Context(), h.GetDB(c), userID, imageID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func multipartError(err error) error {
	if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
		return apperrors.ValidationError(map[string]string{"body": "Expected multipart/form-data"})
	}
	return apperrors.NewBadRequestError("Invalid multipart form: " + err.Error())
}

func parseIDList(values []string) ([]uint, error) {
	ids := make([]uint, 0, len(values))
	for _, raw := range values {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return nil, apperrors.ValidationError(map[string]string{
				deletedImagesField: "Must be a list of positive integers",
			})
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func trimValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
