package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"talentlink_backend/database"
	"talentlink_backend/internal/ai"
	"talentlink_backend/internal/cache"
	"talentlink_backend/internal/config"
	"talentlink_backend/internal/email"
	"talentlink_backend/internal/handlers"
	"talentlink_backend/internal/logger"
	"talentlink_backend/internal/middleware"
	"talentlink_backend/internal/models"
	"talentlink_backend/internal/payments"
	"talentlink_backend/internal/repositories"
	"talentlink_backend/internal/routes"
	"talentlink_backend/internal/services"
	"talentlink_backend/internal/validator"
	"talentlink_backend/internal/workers"
	"talentlink_backend/pkg/apperrors"
	"talentlink_backend/ws"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.SetDebug(cfg.Server.Env != "production")

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", "error", err)
	}

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}
	logger.Info("Migrations applied")

	if err := seedFirstAdmin(gormDB); err != nil {
		// Без админа сервер не запускаем: значит проблемы с БД
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter, serviceContainer := SetupRouter(cfg, gormDB)

	// Сверка зависших платежей: закрывает окно потерянных вебхуков
	reconciler := workers.NewReconciliationWorker(serviceContainer.PaymentService)
	go reconciler.Run()

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *services.ServiceContainer) {
	// 1. WebSocket-менеджер нужен сервисам (пуши сообщений и уведомлений)
	wsManager := ws.NewWebSocketManager()
	go wsManager.Run()
	wsHandler := ws.NewWebSocketHandler(wsManager)

	// 2. Инициализируем сервисы
	serviceContainer, stripeProvider := initializeServices(cfg, gormDB, wsManager)

	// 3. Инициализируем хэндлеры
	appHandlers := initializeHandlers(cfg, serviceContainer, stripeProvider)

	// 4. Инициализируем Gin
	ginRouter := initializeGinRouter(cfg)

	// 5. Делегируем регистрацию маршрутов пакету 'routes'
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler)

	return ginRouter, serviceContainer
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB, wsManager *ws.WebSocketManager) (*services.ServiceContainer, *payments.StripeProvider) {
	// --- Внешние зависимости ---
	cacheClient := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	aiClient := ai.NewOpenAIClient(ai.Config{
		APIKey:         cfg.AI.APIKey,
		Model:          cfg.AI.Model,
		EmbeddingModel: cfg.AI.EmbeddingModel,
		Timeout:        time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
		MaxTokens:      cfg.AI.MaxTokens,
		Temperature:    cfg.AI.Temperature,
	})

	stripeProvider := payments.NewStripeProvider(
		cfg.Stripe.SecretKey,
		cfg.Stripe.WebhookSecret,
		cfg.Stripe.AccountCountry,
		cfg.App.BaseURL,
	)
	// Не присваиваем nil *StripeProvider интерфейсу напрямую:
	// typed nil проходит проверку provider != nil
	var paymentProvider payments.Provider
	if stripeProvider != nil {
		paymentProvider = stripeProvider
		logger.Info("Stripe provider initialized")
	} else {
		logger.Warn("Stripe is not configured. Payment endpoints will return 503.")
	}

	var emailProvider email.Provider
	if cfg.Email.Enabled && cfg.Email.SMTPHost != "" {
		emailProvider = email.NewSMTPProvider(&email.SMTPConfig{
			Host:     cfg.Email.SMTPHost,
			Port:     cfg.Email.SMTPPort,
			Username: cfg.Email.SMTPUsername,
			Password: cfg.Email.SMTPPassword,
			From:     cfg.Email.FromEmail,
		})
		logger.Info("SMTP email provider initialized", "host", cfg.Email.SMTPHost)
	} else {
		emailProvider = &email.NoopProvider{}
		logger.Warn("Email is not configured. Outgoing mail is discarded.")
	}

	// --- Инициализация репозиториев ---
	userRepo := repositories.NewUserRepository(gormDB)
	jobRepo := repositories.NewJobRepository(gormDB)
	applicationRepo := repositories.NewApplicationRepository(gormDB)
	contractRepo := repositories.NewContractRepository(gormDB)
	paymentRepo := repositories.NewPaymentRepository(gormDB)
	messageRepo := repositories.NewMessageRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)
	reviewRepo := repositories.NewReviewRepository(gormDB)

	// --- Инициализация сервисов ---
	notificationService := services.NewNotificationService(notificationRepo, wsManager)
	authService := services.NewAuthService(userRepo, emailProvider)
	userService := services.NewUserService(userRepo, reviewRepo, aiClient)
	jobService := services.NewJobService(jobRepo, applicationRepo, cacheClient, aiClient)
	applicationService := services.NewApplicationService(applicationRepo, jobRepo, notificationService)
	contractService := services.NewContractService(contractRepo, applicationRepo, jobRepo, notificationService)
	paymentService := services.NewPaymentService(paymentRepo, contractRepo, userRepo, jobRepo, paymentProvider, notificationService, emailProvider)
	messageService := services.NewMessageService(messageRepo, userRepo, wsManager, notificationService)
	reviewService := services.NewReviewService(reviewRepo, contractRepo, notificationService)
	aiService := services.NewAIService(aiClient, jobRepo, userRepo)
	adminService := services.NewAdminService(userRepo, jobRepo, contractRepo, paymentRepo)

	return &services.ServiceContainer{
		AuthService:         authService,
		UserService:         userService,
		JobService:          jobService,
		ApplicationService:  applicationService,
		ContractService:     contractService,
		PaymentService:      paymentService,
		MessageService:      messageService,
		NotificationService: notificationService,
		ReviewService:       reviewService,
		AIService:           aiService,
		AdminService:        adminService,
		EmailProvider:       emailProvider,
	}, stripeProvider
}

func initializeHandlers(cfg *config.Config, sc *services.ServiceContainer, stripeProvider *payments.StripeProvider) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	aiLimiter := middleware.NewRateLimiter(cfg.AI.RatePerMinute)

	return &handlers.AppHandlers{
		Auth:         handlers.NewAuthHandler(baseHandler, sc.AuthService),
		User:         handlers.NewUserHandler(baseHandler, sc.UserService, sc.ReviewService),
		Job:          handlers.NewJobHandler(baseHandler, sc.JobService, sc.ApplicationService),
		Application:  handlers.NewApplicationHandler(baseHandler, sc.ApplicationService),
		Contract:     handlers.NewContractHandler(baseHandler, sc.ContractService, sc.PaymentService, sc.ReviewService),
		Payment:      handlers.NewPaymentHandler(baseHandler, sc.PaymentService),
		Webhook:      handlers.NewWebhookHandler(baseHandler, sc.PaymentService, stripeProvider),
		Message:      handlers.NewMessageHandler(baseHandler, sc.MessageService),
		Notification: handlers.NewNotificationHandler(baseHandler, sc.NotificationService),
		AI:           handlers.NewAIHandler(baseHandler, sc.AIService, aiLimiter),
		Admin:        handlers.NewAdminHandler(baseHandler, sc.AdminService),
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())
	return router
}

func seedFirstAdmin(db *gorm.DB) error {
	// .env уже загружен в config.LoadConfig
	adminEmail := os.Getenv("FIRST_ADMIN_EMAIL")
	adminPassword := os.Getenv("FIRST_ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	var adminUser models.User
	result := tx.Where("email = ?", adminEmail).First(&adminUser)
	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		tx.Rollback()
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found. Creating first admin...", "email", adminEmail)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Email:        adminEmail,
		PasswordHash: string(hashedPassword),
		Role:         models.UserRoleAdmin,
	}
	if err := tx.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	adminProfile := &models.Profile{
		UserID:   newAdmin.ID,
		FullName: "Platform Administration",
	}
	if err := tx.Create(adminProfile).Error; err != nil {
		return fmt.Errorf("failed to create admin profile: %w", err)
	}

	logger.Info("✅ Successfully created first admin user", "email", adminEmail)
	return tx.Commit().Error
}
