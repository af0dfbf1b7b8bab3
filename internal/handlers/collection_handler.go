package handlers

import (
	"net/http"

	"archived_backend/internal/services"
	"archived_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type CollectionHandler struct {
	*BaseHandler
	collectionService services.CollectionService
}

func NewCollectionHandler(base *BaseHandler, collectionService services.CollectionService) *CollectionHandler {
	return &CollectionHandler{
		BaseHandler:       base,
		collectionService: collectionService,
	}
}

func (h *CollectionHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	collections := rg.Group("/collections")
	collections.Use(authMiddleware)
	{
		collections.GET("/:id", h.GetCollection)
		collections.PATCH("/:id", h.UpdateCollection)
		collections.DELETE("/:id", h.DeleteCollection)

		collections.GET("/:id/items", h.ListItems)
		collections.POST("/:id/items", h.CreateItem)
		collections.PATCH("/:id/items/order", h.ReorderItems)
	}
}

// collectionParams - общий пролог: пользователь из токена и ID коллекции из пути
func (h *CollectionHandler) collectionParams(c *gin.Context) (userID, collectionID uint, ok bool) {
	userID, ok = h.GetAndAuthorizeUserID(c)
	if !ok {
		return 0, 0, false
	}

	collectionID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return 0, 0, false
	}

	return userID, collectionID, true
}

func (h *CollectionHandler) GetCollection(c *gin.Context) {
	userID, collectionID, ok := h.collectionParams(c)
	if !ok {
		return
	}

	collection, err := h.collectionService.GetCollection(h.GetDB(c), userID, collectionID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, collection)
}

func (h *CollectionHandler) UpdateCollection(c *gin.Context) {
	userID, collectionID, ok := h.collectionParams(c)
	if !ok {
		return
	}

	var req dto.CollectionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	collection, err := h.collectionService.UpdateCollection(h.GetDB(c), userID, collectionID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, collection)
}

func (h *CollectionHandler) DeleteCollection(c *gin.Context) {
	userID, collectionID, ok := h.collectionParams(c)
	if !ok {
		return
	}

	if err := h.collectionService.DeleteCollection(c.Request.Context(), h.GetDB(c), userID, collectionID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CollectionHandler) ListItems(c *gin.Context) {
	userID, collectionID, ok := h.collectionParams(c)
	if !ok {
		return
	}

	items, err := h.collectionService.ListItems(h.GetDB(c), userID, collectionID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *CollectionHandler) CreateItem(c *gin.Context) {
	userID, collectionID, ok := h.collectionParams(c)
	if !ok {
		return
	}

	var req dto.ItemRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	item, err := h.collectionService.CreateItem(h.GetDB(c), userID, collectionID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *CollectionHandler) ReorderItems(c *gin.Context) {
	userID, collectionID, ok := h.collectionParams(c)
	if !ok {
		return
	}

	var req dto.ItemOrderRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	items, err := h.collectionService.ReorderItems(h.GetDB(c), userID, collectionID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}
