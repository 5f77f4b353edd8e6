package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	JobService          JobService
	ApplicationService  ApplicationService
	ResumeService       ResumeService
	NotificationService NotificationService
	InventoryService    InventoryService // nil, если PostgreSQL не настроен
}
