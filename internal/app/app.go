package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"archived_backend/database"
	"archived_backend/internal/auth"
	"archived_backend/internal/config"
	"archived_backend/internal/email"
	"archived_backend/internal/handlers"
	"archived_backend/internal/imageprocessor"
	"archived_backend/internal/logger"
	"archived_backend/internal/middleware"
	"archived_backend/internal/ratelimit"
	"archived_backend/internal/repositories"
	"archived_backend/internal/routes"
	"archived_backend/internal/services"
	"archived_backend/internal/storage"
	"archived_backend/internal/validator"
	"archived_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	shutdownTimeout = 10 * time.Second
	// maxMultipartMemory - сверх этого части формы уходят во временные файлы
	maxMultipartMemory = 32 << 20
)

// Dependencies - внешние зависимости роутера. Nil-поля создаются из конфигурации,
// тесты подменяют почту и хранилище.
type Dependencies struct {
	Mailer  email.Provider
	Storage storage.Storage
	// Now - часы для лимитера контактной формы
	Now func() time.Time
}

// Application - собранный роутер вместе с сервисами, которые нужны снаружи HTTP
type Application struct {
	Router   *gin.Engine
	Services *services.ServiceContainer
	DB       *gorm.DB
}

// Run поднимает HTTP сервер и фоновые задачи, останавливается по SIGINT/SIGTERM
func Run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gormDB, err := OpenDatabase(cfg)
	if err != nil {
		return err
	}

	application, err := SetupRouter(ctx, cfg, gormDB, Dependencies{})
	if err != nil {
		return err
	}

	maintenance := workers.NewMaintenanceWorker(gormDB, application.Services.MaintenanceService, cfg.MaintenanceInterval())
	maintenance.Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              address,
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", address, "env", cfg.Server.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server startup error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("Server stopped")
	return nil
}

// OpenDatabase подключается к DATABASE_URL и применяет миграции
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	logger.Info("Connecting to database...")
	gormDB, err := database.Connect(cfg.Database.DSN, cfg.IsDevelopment())
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(gormDB); err != nil {
		return nil, err
	}
	logger.Info("Database connected")
	return gormDB, nil
}

func SetupRouter(ctx context.Context, cfg *config.Config, gormDB *gorm.DB, deps Dependencies) (*Application, error) {
	if deps.Storage == nil {
		storageInstance, err := storage.NewStorage(ctx, storage.Config{
			Type:      cfg.Storage.Type,
			BasePath:  cfg.Upload.Dir,
			BaseURL:   storageBaseURL(cfg),
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Endpoint:  cfg.Storage.Endpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		deps.Storage = storageInstance
		logger.Info("Storage initialized", "type", cfg.Storage.Type)
	}

	if deps.Mailer == nil {
		deps.Mailer = email.NewSMTPProvider(&email.SMTPConfig{
			Host:     cfg.Email.SMTPHost,
			Port:     cfg.Email.SMTPPort,
			Username: cfg.Email.SMTPUsername,
			Password: cfg.Email.SMTPPassword,
			FromName: "ARCHIVED",
		}, email.NewTemplateManager())
		if err := deps.Mailer.Validate(); err != nil {
			logger.Warn("Email provider is not configured, contact form will fail", "error", err)
		}
	}

	// 1. Инициализируем сервисы
	serviceContainer, err := initializeServices(cfg, deps)
	if err != nil {
		return nil, err
	}

	// 2. Инициализируем хэндлеры
	appHandlers := initializeHandlers(serviceContainer)

	// 3. Инициализируем Gin
	ginRouter := initializeGinRouter(cfg, gormDB)

	// 4. Маршруты; статика нужна только локальному хранилищу
	uploadDir := ""
	if local, ok := deps.Storage.(*storage.LocalStorage); ok {
		uploadDir = local.BasePath()
	}
	routes.RegisterRoutes(
		ginRouter,
		appHandlers,
		middleware.AuthMiddleware(serviceContainer.AuthService),
		cfg.UploadPath(),
		uploadDir,
	)

	return &Application{
		Router:   ginRouter,
		Services: serviceContainer,
		DB:       gormDB,
	}, nil
}

func initializeServices(cfg *config.Config, deps Dependencies) (*services.ServiceContainer, error) {
	tokens, err := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.AccessTokenTTL(), cfg.RefreshTokenTTL())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token manager: %w", err)
	}

	limiter := ratelimit.NewFixedWindowLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimitWindow())
	if deps.Now != nil {
		limiter = limiter.WithClock(deps.Now)
	}

	// --- Инициализация репозиториев ---
	userRepo := repositories.NewUserRepository()
	refreshTokenRepo := repositories.NewRefreshTokenRepository()
	collectionRepo := repositories.NewCollectionRepository()
	itemRepo := repositories.NewItemRepository()
	imageRepo := repositories.NewImageRepository()
	tagRepo := repositories.NewTagRepository()
	shareRepo := repositories.NewShareRepository()

	// --- Инициализация сервисов ---
	uploadConfig := services.UploadConfig{
		MaxFileSize:       cfg.Upload.MaxSize,
		AllowedExtensions: cfg.Upload.AllowedExtensions,
	}
	processor := imageprocessor.NewProcessor(cfg.Upload.ImageQuality)

	return &services.ServiceContainer{
		AuthService:        services.NewAuthService(userRepo, refreshTokenRepo, tokens),
		UserService:        services.NewUserService(userRepo, refreshTokenRepo, imageRepo, deps.Storage),
		CollectionService:  services.NewCollectionService(collectionRepo, itemRepo, imageRepo, deps.Storage),
		ItemService:        services.NewItemService(itemRepo, tagRepo, imageRepo, deps.Storage),
		ImageService:       services.NewImageService(itemRepo, imageRepo, deps.Storage, processor, uploadConfig),
		ShareService:       services.NewShareService(shareRepo, collectionRepo, itemRepo, cfg.ShareURL),
		ContactService:     services.NewContactService(limiter, deps.Mailer, cfg.Email.AdminEmail),
		MaintenanceService: services.NewMaintenanceService(tagRepo, refreshTokenRepo, limiter),

		Storage: deps.Storage,
	}, nil
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:       handlers.NewAuthHandler(baseHandler, services.AuthService),
		UserHandler:       handlers.NewUserHandler(baseHandler, services.UserService, services.CollectionService),
		CollectionHandler: handlers.NewCollectionHandler(baseHandler, services.CollectionService),
		ItemHandler:       handlers.NewItemHandler(baseHandler, services.ItemService),
		ImageHandler:      handlers.NewImageHandler(baseHandler, services.ImageService),
		ShareHandler:      handlers.NewShareHandler(baseHandler, services.ShareService),
		ContactHandler:    handlers.NewContactHandler(baseHandler, services.ContactService),
		HealthHandler:     handlers.NewHealthHandler(baseHandler),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = maxMultipartMemory
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORS.Origins))
	router.Use(middleware.DBMiddleware(db))
	return router
}

// storageBaseURL - публичный префикс для URL изображений
func storageBaseURL(cfg *config.Config) string {
	if cfg.Storage.Type == "s3" {
		return cfg.Storage.PublicURL
	}
	return cfg.UploadURL()
}
