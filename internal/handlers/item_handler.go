package handlers

import (
	"net/http"

	"archived_backend/internal/services"
	"archived_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	*BaseHandler
	itemService services.ItemService
}

func NewItemHandler(base *BaseHandler, itemService services.ItemService) *ItemHandler {
	return &ItemHandler{
		BaseHandler: base,
		itemService: itemService,
	}
}

// RegisterRoutes регистрирует /items/:id и теги. Маршруты изображений
// предмета регистрирует ImageHandler в той же группе.
func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	items := rg.Group("/items")
	items.Use(authMiddleware)
	{
		items.GET("/:id", h.GetItem)
		items.PATCH("/:id", h.UpdateItem)
		items.DELETE("/:id", h.DeleteItem)

		items.GET("/:id/tags", h.GetTags)
		items.POST("/:id/tags", h.AddTags)
		items.DELETE("/:id/tags", h.ClearTags)
	}
}

func (h *ItemHandler) itemParams(c *gin.Context) (userID, itemID uint, ok bool) {
	userID, ok = h.GetAndAuthorizeUserID(c)
	if !ok {
		return 0, 0, false
	}

	itemID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return 0, 0, false
	}

	return userID, itemID, true
}

func (h *ItemHandler) GetItem(c *gin.Context) {
	userID, itemID, ok := h.itemParams(c)
	if !ok {
		return
	}

	item, err := h.itemService.GetItem(h.GetDB(c), userID, itemID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) UpdateItem(c *gin.Context) {
	userID, itemID, ok := h.itemParams(c)
	if !ok {
		return
	}

	var req dto.ItemRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	item, err := h.itemService.UpdateItem(h.GetDB(c), userID, itemID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) DeleteItem(c *gin.Context) {
	userID, itemID, ok := h.itemParams(c)
	if !ok {
		return
	}

	if err := h.itemService.DeleteItem(c.Request.Context(), h.GetDB(c), userID, itemID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ItemHandler) GetTags(c *gin.Context) {
	userID, itemID, ok := h.itemParams(c)
	if !ok {
		return
	}

	tags, err := h.itemService.GetTags(h.GetDB(c), userID, itemID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tags)
}

func (h *ItemHandler) AddTags(c *gin.Context) {
	userID, itemID, ok := h.itemParams(c)
	if !ok {
		return
	}

	var req dto.AddTagsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	tags, err := h.itemService.AddTags(h.GetDB(c), userID, itemID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tags)
}

func (h *ItemHandler) ClearTags(c *gin.Context) {
	userID, itemID, ok := h.itemParams(c)
	if !ok {
		return
	}

	tags, err := h.itemService.ClearTags(h.GetDB(c), userID, itemID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tags)
}
