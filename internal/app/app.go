package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobboard_backend/database"
	_ "jobboard_backend/docs"
	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/config"
	"jobboard_backend/internal/email"
	"jobboard_backend/internal/handlers"
	"jobboard_backend/internal/jobsearch"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/routes"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/storage"
	"jobboard_backend/internal/validator"
	"jobboard_backend/internal/workers"
	"jobboard_backend/pkg/apperrors"
	"jobboard_backend/pkg/serpapi"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	shutdownTimeout    = 15 * time.Second
	breakerOpenTimeout = 30 * time.Second
)

// Dependencies - инфраструктура, из которой собираются сервисы.
// Тесты подставляют in-memory репозитории и локальное хранилище.
type Dependencies struct {
	UserRepo      repositories.UserRepository
	JobRepo       repositories.JobRepository
	InventoryRepo repositories.InventoryRepository // nil - склад выключен
	Storage       storage.Storage
	Tokens        *auth.TokenManager
	External      jobsearch.Provider // nil - внешний поиск выключен
	Email         email.Provider
	HealthChecks  map[string]handlers.HealthCheck
}

func Run() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Init("development")
		logger.Fatal("Failed to load config", "error", err)
	}
	logger.Init(cfg.Server.Env)
	defer logger.Sync()
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	apperrors.SetDebug(!cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, cleanup, err := BuildDependencies(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize dependencies", "error", err)
	}
	defer cleanup()

	ginRouter, serviceContainer := SetupRouter(cfg, deps)

	if cfg.Janitor.Schedule != "" {
		janitor := workers.NewResumeJanitor(deps.Storage,
			time.Duration(cfg.Janitor.GracePeriod)*time.Hour,
			deps.UserRepo, deps.JobRepo)
		if err := janitor.Start(ctx, cfg.Janitor.Schedule); err != nil {
			logger.Fatal("Failed to start resume janitor", "error", err)
		}
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(fmt.Sprintf("🚀 Server starting on %s", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	serviceContainer.NotificationService.Wait()
	logger.Info("✅ Server stopped")
}

// BuildDependencies подключает хранилища по конфигу. cleanup закрывает соединения.
func BuildDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*Dependencies, func(), error) {
		cleanup()
		return nil, func() {}, err
	}

	deps := &Dependencies{
		Tokens:       auth.NewTokenManager(cfg.JWT.Secret, cfg.TokenTTL()),
		HealthChecks: map[string]handlers.HealthCheck{},
	}

	// --- MongoDB: вакансии и пользователи ---
	if cfg.Mongo.URI != "" {
		logger.Info("Connecting to MongoDB...", "database", cfg.Mongo.Database)
		client, err := database.ConnectMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() { _ = client.Disconnect(context.Background()) })

		db := client.Database(cfg.Mongo.Database)
		userRepo := repositories.NewUserRepository(db)
		jobRepo := repositories.NewJobRepository(db)
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			return fail(err)
		}
		if err := jobRepo.EnsureIndexes(ctx); err != nil {
			return fail(err)
		}
		deps.UserRepo, deps.JobRepo = userRepo, jobRepo
		deps.HealthChecks["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		logger.Info("✅ MongoDB connected")
	} else {
		logger.Warn("⚠️ mongo.uri is empty: using in-memory repositories, data is lost on restart")
		deps.UserRepo = repositories.NewMemoryUserRepository()
		deps.JobRepo = repositories.NewMemoryJobRepository()
	}

	// --- PostgreSQL: прототип склада ---
	if cfg.Database.DSN != "" {
		gormDB, err := database.ConnectGorm(cfg.Database.DSN)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() { closeGorm(gormDB) })
		if err := database.AutoMigrate(gormDB); err != nil {
			return fail(err)
		}
		deps.InventoryRepo = repositories.NewInventoryRepository(gormDB)
		deps.HealthChecks["postgres"] = func(ctx context.Context) error {
			sqlDB, err := gormDB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
		logger.Info("✅ PostgreSQL connected")
	}

	// --- Хранилище резюме ---
	store, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		return fail(fmt.Errorf("failed to initialize storage: %w", err))
	}
	deps.Storage = store
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	// --- Внешний поиск: SerpAPI -> [breaker] -> [redis cache] ---
	external, rdb, err := buildExternalProvider(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	if rdb != nil {
		closers = append(closers, func() { _ = rdb.Close() })
		deps.HealthChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	deps.External = external

	// --- Email ---
	templates := email.NewTemplateManager()
	smtpCfg := email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}
	if smtpCfg.Enabled() {
		provider, err := email.NewSMTPProvider(smtpCfg, templates)
		if err != nil {
			return fail(err)
		}
		deps.Email = provider
	} else {
		logger.Warn("--- SMTP не настроен. Письма пишутся в лог. ---")
		deps.Email = email.NewLogProvider(templates)
	}

	return deps, cleanup, nil
}

func buildExternalProvider(ctx context.Context, cfg *config.Config) (jobsearch.Provider, *redis.Client, error) {
	if cfg.SerpAPI.APIKey == "" {
		logger.Warn("⚠️ SERP_API_KEY is not set: external job search disabled")
		return nil, nil, nil
	}

	client, err := serpapi.NewClient(serpapi.Config{
		APIKey:     cfg.SerpAPI.APIKey,
		BaseURL:    cfg.SerpAPI.BaseURL,
		HTTPClient: &http.Client{Timeout: cfg.ExternalTimeout()},
	})
	if err != nil {
		return nil, nil, err
	}

	var provider jobsearch.Provider = jobsearch.NewSerpProvider(client, cfg.SerpAPI.DefaultQuery, cfg.SerpAPI.Location)

	if cfg.SerpAPI.BreakerMaxFailures > 0 {
		provider = jobsearch.NewBreakerProvider(provider, cfg.SerpAPI.BreakerMaxFailures, breakerOpenTimeout)
	}

	if cfg.Redis.URL == "" || cfg.SerpAPI.CacheTTL <= 0 {
		return provider, nil, nil
	}

	rdb, err := database.ConnectRedis(ctx, cfg.Redis.URL)
	if err != nil {
		// кэш опционален
		logger.Warn("⚠️ Redis unavailable, external results are not cached", "error", err)
		return provider, nil, nil
	}
	ttl := time.Duration(cfg.SerpAPI.CacheTTL) * time.Second
	logger.Info("✅ Redis cache enabled for external search", "ttl", ttl.String())
	return jobsearch.NewCachedProvider(provider, jobsearch.NewRedisCache(rdb), ttl), rdb, nil
}

// SetupRouter собирает сервисы, хэндлеры и gin.Engine.
func SetupRouter(cfg *config.Config, deps *Dependencies) (*gin.Engine, *services.ServiceContainer) {
	// 1. Инициализируем сервисы
	serviceContainer := initializeServices(cfg, deps)

	// 2. Инициализируем хэндлеры
	appHandlers := initializeHandlers(cfg, deps, serviceContainer)

	// 3. Инициализируем Gin
	ginRouter := initializeGinRouter(cfg)

	if local, ok := deps.Storage.(*storage.LocalStorage); ok {
		ginRouter.Static(staticPrefix(cfg.Storage.BaseURL), local.BasePath())
	}

	// 4. Делегируем регистрацию маршрутов пакету 'routes'
	routes.RegisterRoutes(ginRouter, appHandlers, middleware.AuthMiddleware(deps.Tokens))

	return ginRouter, serviceContainer
}

func initializeServices(cfg *config.Config, deps *Dependencies) *services.ServiceContainer {
	notificationService := services.NewNotificationService(deps.Email, deps.UserRepo)
	resumeService := services.NewResumeService(deps.Storage, deps.UserRepo, cfg.Upload.MaxSize)

	container := &services.ServiceContainer{
		AuthService:         services.NewAuthService(deps.UserRepo, deps.Tokens),
		JobService:          services.NewJobService(deps.JobRepo, deps.UserRepo, deps.External, cfg.ExternalTimeout()),
		ApplicationService:  services.NewApplicationService(deps.JobRepo, deps.UserRepo, resumeService, notificationService),
		ResumeService:       resumeService,
		NotificationService: notificationService,
	}
	if deps.InventoryRepo != nil {
		container.InventoryService = services.NewInventoryService(deps.InventoryRepo)
	}
	return container
}

func initializeHandlers(cfg *config.Config, deps *Dependencies, svc *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	appHandlers := &handlers.AppHandlers{
		HealthHandler:      handlers.NewHealthHandler(deps.HealthChecks),
		AuthHandler:        handlers.NewAuthHandler(baseHandler, svc.AuthService),
		JobHandler:         handlers.NewJobHandler(baseHandler, svc.JobService),
		ApplicationHandler: handlers.NewApplicationHandler(baseHandler, svc.ApplicationService, cfg.Upload.MaxSize),
		UploadHandler:      handlers.NewUploadHandler(baseHandler, svc.ResumeService, cfg.Upload.MaxSize),
	}
	if svc.InventoryService != nil {
		appHandlers.InventoryHandler = handlers.NewInventoryHandler(baseHandler, svc.InventoryService)
	}
	return appHandlers
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = cfg.Upload.MaxSize
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))
	return router
}

// staticPrefix - путь раздачи локальных файлов, base_url может быть абсолютным.
func staticPrefix(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return "/uploads"
	}
	return u.Path
}

func closeGorm(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
