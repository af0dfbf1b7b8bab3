package handlers

import (
	"net/http"

	"archived_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ShareHandler struct {
	*BaseHandler
	shareService services.ShareService
}

func NewShareHandler(base *BaseHandler, shareService services.ShareService) *ShareHandler {
	return &ShareHandler{
		BaseHandler:  base,
		shareService: shareService,
	}
}

// RegisterRoutes: управление ссылкой требует токена, просмотр по ссылке публичный
func (h *ShareHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	share := rg.Group("/share")
	{
		share.GET("/:token", h.GetSharedCollection)
		share.GET("/:token/items/:item_id", h.GetSharedItem)
	}

	manage := rg.Group("/share/collections")
	manage.Use(authMiddleware)
	{
		manage.POST("/:id", h.CreateShareLink)
		manage.DELETE("/:id", h.DisableShareLink)
	}
}

// CreateShareLink - POST /share/collections/:id?rotate=true
func (h *ShareHandler) CreateShareLink(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	collectionID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	rotate := ParseQueryBool(c, "rotate", false)

	share, err := h.shareService.CreateOrEnable(h.GetDB(c), userID, collectionID, rotate)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, share)
}

func (h *ShareHandler) DisableShareLink(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	collectionID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	status, err := h.shareService.Disable(h.GetDB(c), userID, collectionID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *ShareHandler) GetSharedCollection(c *gin.Context) {
	collection, err := h.shareService.GetSharedCollection(h.GetDB(c), c.Param("token"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, collection)
}

func (h *ShareHandler) GetSharedItem(c *gin.Context) {
	itemID, err := ParseParamID(c, "item_id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	item, err := h.shareService.GetSharedItem(h.GetDB(c), c.Param("token"), itemID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}
