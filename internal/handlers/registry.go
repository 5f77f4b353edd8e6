package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	HealthHandler      *HealthHandler
	AuthHandler        *AuthHandler
	JobHandler         *JobHandler
	ApplicationHandler *ApplicationHandler
	UploadHandler      *UploadHandler
	InventoryHandler   *InventoryHandler // nil, если PostgreSQL не настроен
}
