package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler       *AuthHandler
	UserHandler       *UserHandler
	CollectionHandler *CollectionHandler
	ItemHandler       *ItemHandler
	ImageHandler      *ImageHandler
	ShareHandler      *ShareHandler
	ContactHandler    *ContactHandler
	HealthHandler     *HealthHandler
}
