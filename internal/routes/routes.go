package routes

import (
	"archived_backend/internal/handlers"
	"archived_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP маршруты. API живет в корне,
// локальные файлы раздаются по uploadPath из uploadDir.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	authMiddleware gin.HandlerFunc,
	uploadPath string,
	uploadDir string,
) {
	api := ginRouter.Group("")
	{
		appHandlers.HealthHandler.RegisterRoutes(api)
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.UserHandler.RegisterRoutes(api, authMiddleware)
		appHandlers.CollectionHandler.RegisterRoutes(api, authMiddleware)
		appHandlers.ItemHandler.RegisterRoutes(api, authMiddleware)
		appHandlers.ImageHandler.RegisterRoutes(api, authMiddleware)
		appHandlers.ShareHandler.RegisterRoutes(api, authMiddleware)
		appHandlers.ContactHandler.RegisterRoutes(api)
	}

	if uploadDir != "" {
		ginRouter.Static("/"+uploadPath, uploadDir)
		logger.Info("Static uploads route registered", "path", "/"+uploadPath, "dir", uploadDir)
	}
}
