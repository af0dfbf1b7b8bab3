package services

import (
	"archived_backend/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService        AuthService
	UserService        UserService
	CollectionService  CollectionService
	ItemService        ItemService
	ImageService       ImageService
	ShareService       ShareService
	ContactService     ContactService
	MaintenanceService MaintenanceService

	// Storage - хранилище файлов изображений, общее для сервисов
	Storage storage.Storage
}
