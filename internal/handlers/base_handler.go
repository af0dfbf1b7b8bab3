package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"archived_backend/internal/logger"
	"archived_backend/internal/middleware"
	"archived_backend/internal/validator"
	"archived_backend/pkg/apperrors"
	"archived_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{
		validator: v,
	}
}

// GetDB - *gorm.DB запроса из DBMiddleware. Отсутствие - ошибка сборки роутера, поэтому panic.
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	db, ok := c.Value(contextkeys.DBContextKey.String()).(*gorm.DB)
	if !ok {
		panic(fmt.Sprintf("handlers: no *gorm.DB under %q, DBMiddleware is not installed", contextkeys.DBContextKey))
	}
	return db
}

// BindAndValidate_JSON привязывает тело (JSON или форму, по Content-Type) и валидирует его
func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBind(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind request body", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.ValidationError(map[string]string{"body": err.Error()}))
		return false
	}

	return h.Validate(c, obj)
}

func (h *BaseHandler) BindAndValidate_Query(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindQuery(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind query params", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.ValidationError(map[string]string{"query": err.Error()}))
		return false
	}

	return h.Validate(c, obj)
}

// Validate проверяет уже заполненную структуру
func (h *BaseHandler) Validate(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		} else {
			logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

// HandleServiceError логирует ошибку сервиса (4xx - warn, остальное - error) и отдает ее клиенту
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	path := c.Request.URL.Path

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) && appErr.HTTPCode < http.StatusInternalServerError {
		logger.CtxWarn(ctx, "Request rejected", "status", appErr.HTTPCode, "detail", appErr.Message, "path", path)
	} else {
		logger.CtxWithError(ctx, "Request failed", err, "path", path)
	}
	apperrors.HandleError(c, err)
}

func (h *BaseHandler) GetAndAuthorizeUserID(c *gin.Context) (uint, bool) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		logger.CtxWarn(c.Request.Context(), "Unauthorized access: userID not found in context",
			"path", c.Request.URL.Path,
			"ip", middleware.ClientIP(c),
		)
		apperrors.HandleError(c, apperrors.ErrInvalidAccessToken)
		return 0, false
	}
	return userID, true
}

// ParseParamID читает положительный целочисленный идентификатор из пути
func ParseParamID(c *gin.Context, key string) (uint, error) {
	valueStr := c.Param(key)
	if valueStr == "" {
		return 0, apperrors.NewBadRequestError("Missing required path parameter: " + key)
	}
	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil || value == 0 {
		return 0, apperrors.ValidationError(map[string]string{key: "Must be a positive integer"})
	}
	return uint(value), nil
}

// ParseQueryBool возвращает defaultValue, если параметр не задан или не разобран
func ParseQueryBool(c *gin.Context, key string, defaultValue bool) bool {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
