package handlers

import (
	"net/http"

	"archived_backend/internal/services"
	"archived_backend/internal/services/dto"
	"archived_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService       services.UserService
	collectionService services.CollectionService
}

func NewUserHandler(base *BaseHandler, userService services.UserService, collectionService services.CollectionService) *UserHandler {
	return &UserHandler{
		BaseHandler:       base,
		userService:       userService,
		collectionService: collectionService,
	}
}

// RegisterRoutes регистрирует маршруты /users/me
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	me := rg.Group("/users/me")
	me.Use(authMiddleware)
	{
		me.GET("", h.GetCurrentUser)
		me.PATCH("", h.UpdateCurrentUser)
		me.DELETE("", h.DeleteCurrentUser)
		me.POST("/password", h.ChangePassword)

		me.GET("/collections", h.ListCollections)
		me.POST("/collections", h.CreateCollection)
		me.PATCH("/collections/order", h.ReorderCollections)
	}
}

func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateCurrentUser(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateUsername(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.userService.ChangePassword(h.GetDB(c), userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteCurrentUser - пароль приходит в query: DELETE /users/me?current_password=...
func (h *UserHandler) DeleteCurrentUser(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.DeleteAccountRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	if err := h.userService.DeleteAccount(c.Request.Context(), h.GetDB(c), userID, req.CurrentPassword); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) ListCollections(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	collections, err := h.collectionService.ListCollections(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, collections)
}

func (h *UserHandler) CreateCollection(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CollectionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	collection, err := h.collectionService.CreateCollection(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, collection)
}

// ReorderCollections - тело запроса: JSON-массив ID коллекций в новом порядке
func (h *UserHandler) ReorderCollections(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var ids []uint
	if err := c.ShouldBindJSON(&ids); err != nil {
		h.HandleServiceError(c, apperrors.ValidationError(map[string]string{"body": "Expected a JSON array of collection IDs"}))
		return
	}

	collections, err := h.collectionService.ReorderCollections(h.GetDB(c), userID, ids)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, collections)
}
