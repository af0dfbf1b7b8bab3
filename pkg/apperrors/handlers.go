package apperrors

import (
	"net/http"

	"archived_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - тело любого ответа с ошибкой
type ErrorResponse struct {
	Detail string      `json:"detail"`
	Code   ErrorCode   `json:"code"`
	Errors interface{} `json:"errors,omitempty"`
}

// HandleError пишет ошибку в ответ и прерывает цепочку. Не-AppError становится 500;
// детали 5xx отдаются только в debug-режиме gin.
func HandleError(c *gin.Context, err error) {
	var appErr *AppError
	if !As(err, &appErr) || appErr.HTTPCode == 0 {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= http.StatusInternalServerError {
		logger.CtxError(c.Request.Context(), "Server error", "error", appErr.Error())
	}

	for k, v := range appErr.Headers {
		c.Header(k, v)
	}
	if appErr.HTTPCode == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}

	resp := ErrorResponse{Detail: appErr.Message, Code: appErr.Code}
	if appErr.HTTPCode < http.StatusInternalServerError || gin.IsDebugging() {
		resp.Errors = appErr.Details
	}
	c.AbortWithStatusJSON(appErr.HTTPCode, resp)
}
