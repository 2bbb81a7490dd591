package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"shebeka_backend/database"
	"shebeka_backend/internal/auth"
	"shebeka_backend/internal/config"
	"shebeka_backend/internal/email"
	"shebeka_backend/internal/handlers"
	"shebeka_backend/internal/imageprocessor"
	"shebeka_backend/internal/logger"
	"shebeka_backend/internal/middleware"
	"shebeka_backend/internal/models"
	"shebeka_backend/internal/ratelimit"
	"shebeka_backend/internal/repositories"
	"shebeka_backend/internal/routes"
	"shebeka_backend/internal/services"
	"shebeka_backend/internal/storage"
	"shebeka_backend/internal/validator"
	"shebeka_backend/internal/workers"
	"shebeka_backend/pkg/apperrors"
	"shebeka_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// запас на служебные части multipart сверх лимита файла
const multipartOverhead = 1 << 20

// App - собранное приложение: роутер и фоновые процессы
type App struct {
	cfg          *config.Config
	db           *gorm.DB
	router       *gin.Engine
	wsManager    *ws.WebSocketManager
	expiryWorker *workers.JobExpiryWorker
	limiter      *ratelimit.Store
	redis        *redis.Client
}

// Serve открывает БД, применяет миграции, создает первого админа и работает до отмены ctx
func Serve(ctx context.Context, cfg *config.Config) error {
	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	db, err := database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()
	logger.Info("Database connected")

	if err := database.AutoMigrate(ctx, db); err != nil {
		return err
	}
	if err := SeedFirstAdmin(ctx, db, cfg); err != nil {
		// без админа сервер не запускаем
		return fmt.Errorf("failed to seed first admin user: %w", err)
	}

	application, err := New(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer application.Close()

	return application.Run(ctx)
}

// New собирает сервисы, хэндлеры и роутер поверх открытой БД
func New(ctx context.Context, cfg *config.Config, db *gorm.DB) (*App, error) {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	apperrors.SetDebug(cfg.IsDevelopment())

	fileStorage, err := storage.NewStorage(storage.ConfigFrom(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	emailProvider, err := email.NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize email provider: %w", err)
	}

	a := &App{
		cfg:       cfg,
		db:        db,
		wsManager: ws.NewWebSocketManager(),
		limiter:   ratelimit.NewStore(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	}

	var stats ratelimit.StatsStore
	if cfg.RateLimit.RedisURL != "" {
		rdb, err := ratelimit.NewRedisClient(ctx, cfg.RateLimit.RedisURL)
		if err != nil {
			// статистика необязательна, лимитер работает и без нее
			logger.Warn("Redis unavailable, rate limit stats disabled", "error", err)
		} else {
			a.redis = rdb
			stats = ratelimit.NewRedisStatsStore(rdb)
		}
	}

	serviceContainer := initializeServices(cfg, db, fileStorage, emailProvider, a.wsManager)
	appHandlers := initializeHandlers(cfg, serviceContainer)
	wsHandler := ws.NewWebSocketHandler(a.wsManager, serviceContainer.AuthService, cfg.Server.CORSOrigins)

	a.expiryWorker = workers.NewJobExpiryWorker(
		repositories.NewJobRepository(db),
		serviceContainer.NotificationService,
		cfg.Workers.JobExpiryInterval,
		cfg.Workers.ExpiringWindow,
	)

	opts := routes.Options{
		Auth:      middleware.AuthMiddleware(serviceContainer.AuthService),
		RateLimit: middleware.RateLimitMiddleware(a.limiter, stats),
		Ping:      pingFunc(db),
		Swagger:   true,
	}
	if local, ok := fileStorage.(*storage.LocalStorage); ok && strings.HasPrefix(local.BaseURL(), "/") {
		opts.UploadsURL = local.BaseURL()
		opts.UploadsDir = local.BasePath()
	}

	a.router = initializeGinRouter(cfg)
	routes.RegisterRoutes(a.router, appHandlers, wsHandler, opts)

	return a, nil
}

// Router - для тестов и встраивания
func (a *App) Router() http.Handler {
	return a.router
}

// Run запускает HTTP сервер, websocket hub, воркер и очистку лимитера.
// При отмене ctx сервер завершается корректно в пределах shutdown_timeout.
func (a *App) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server starting", "addr", server.Addr, "env", a.cfg.Server.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error { return a.wsManager.Run(gctx) })
	g.Go(func() error { return a.expiryWorker.Start(gctx) })
	g.Go(func() error { return a.limiter.RunJanitor(gctx) })

	err := g.Wait()
	logger.Info("Server stopped")
	return err
}

// Close освобождает внешние клиенты; БД закрывает тот, кто ее открыл
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			logger.Warn("Failed to close redis client", "error", err)
		}
	}
}

func initializeServices(
	cfg *config.Config,
	db *gorm.DB,
	fileStorage storage.Storage,
	emailProvider email.Provider,
	pusher services.Pusher,
) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, pusher)

	return &services.ServiceContainer{
		AuthService:         services.NewAuthService(userRepo, tokens, emailProvider),
		JobService:          services.NewJobService(jobRepo, userRepo, notificationService),
		ApplicationService:  services.NewApplicationService(applicationRepo, jobRepo, userRepo, notificationService),
		NotificationService: notificationService,
		UserService: services.NewUserService(
			userRepo,
			repositories.NewTransactor(db),
			fileStorage,
			imageprocessor.NewProcessor(cfg.Upload.ImageQuality),
			services.UploadLimits{
				ResumeMaxSize: cfg.Upload.ResumeMaxSize,
				AvatarMaxSize: cfg.Upload.AvatarMaxSize,
			},
		),
	}
}

func initializeHandlers(cfg *config.Config, svc *services.ServiceContainer) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	maxForm := cfg.Upload.ResumeMaxSize
	if cfg.Upload.AvatarMaxSize > maxForm {
		maxForm = cfg.Upload.AvatarMaxSize
	}

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, svc.AuthService),
		JobHandler:          handlers.NewJobHandler(baseHandler, svc.JobService),
		ApplicationHandler:  handlers.NewApplicationHandler(baseHandler, svc.ApplicationService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, svc.NotificationService),
		UserHandler:         handlers.NewUserHandler(baseHandler, svc.UserService),
		UploadHandler:       handlers.NewUploadHandler(baseHandler, svc.UserService, maxForm+multipartOverhead),
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))
	return router
}

func pingFunc(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

// SeedFirstAdmin создает ADMIN из конфига, если в базе еще нет ни одного администратора
func SeedFirstAdmin(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	adminEmail := strings.ToLower(strings.TrimSpace(cfg.Admin.Email))
	if adminEmail == "" || cfg.Admin.Password == "" {
		logger.Warn("ADMIN_EMAIL or ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	userRepo := repositories.NewUserRepository(db)
	return repositories.NewTransactor(db).WithinTransaction(ctx, func(txCtx context.Context) error {
		count, err := userRepo.CountByRole(txCtx, models.UserRoleAdmin)
		if err != nil {
			return fmt.Errorf("failed to check for admin user: %w", err)
		}
		if count > 0 {
			logger.Info("Admin user already exists. Skipping creation.")
			return nil
		}

		if err := auth.ValidatePassword(cfg.Admin.Password); err != nil {
			return fmt.Errorf("invalid admin password: %w", err)
		}
		hash, err := auth.HashPassword(cfg.Admin.Password)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}

		admin := &models.User{
			Name:         cfg.Admin.Name,
			Email:        adminEmail,
			PasswordHash: hash,
			Role:         models.UserRoleAdmin,
		}
		if err := userRepo.Create(txCtx, admin); err != nil {
			if errors.Is(err, repositories.ErrUserAlreadyExists) {
				return fmt.Errorf("email %s is already used by a non-admin account", adminEmail)
			}
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		logger.Info("Created first admin user", "email", adminEmail)
		return nil
	})
}
