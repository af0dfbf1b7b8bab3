package handlers

import (
	"net/http"

	"archived_backend/internal/middleware"
	"archived_backend/internal/services"
	"archived_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	*BaseHandler
	contactService services.ContactService
}

func NewContactHandler(base *BaseHandler, contactService services.ContactService) *ContactHandler {
	return &ContactHandler{
		BaseHandler:    base,
		contactService: contactService,
	}
}

// RegisterRoutes - форма доступна и как /contact, и как /contact/
func (h *ContactHandler) RegisterRoutes(rg *gin.RouterGroup) {
	contact := rg.Group("/contact")
	{
		contact.POST("", h.Submit)
		contact.POST("/", h.Submit)
		contact.GET("/rate-limit-info", h.RateLimitInfo)
	}
}

func (h *ContactHandler) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.contactService.Submit(c.Request.Context(), middleware.ClientIP(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *ContactHandler) RateLimitInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.contactService.RateLimitInfo(middleware.ClientIP(c)))
}
