package routes

import (
	"jobboard_backend/internal/handlers"
	"jobboard_backend/internal/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers, // <-- Принимаем ГОТОВЫЕ хэндлеры
	authMw gin.HandlerFunc,
) {
	// Регистрация HTTP API v1
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.HealthHandler.RegisterRoutes(api)
		appHandlers.AuthHandler.RegisterRoutes(api, authMw)
		appHandlers.JobHandler.RegisterRoutes(api, authMw)
		appHandlers.ApplicationHandler.RegisterRoutes(api, authMw)
		appHandlers.UploadHandler.RegisterRoutes(api, authMw)

		if appHandlers.InventoryHandler != nil {
			appHandlers.InventoryHandler.RegisterRoutes(api, authMw)
		} else {
			logger.Warn("⚠️ Inventory routes disabled: database.url is not set")
		}
	}

	ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
