package app

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/regtech-horizon/regtech-backend/internal/advertisement"
	"github.com/regtech-horizon/regtech-backend/internal/auth"
	"github.com/regtech-horizon/regtech-backend/internal/company"
	"github.com/regtech-horizon/regtech-backend/internal/dashboard"
	"github.com/regtech-horizon/regtech-backend/internal/favorite"
	"github.com/regtech-horizon/regtech-backend/internal/mail"
	"github.com/regtech-horizon/regtech-backend/internal/messaging/kafka"
	"github.com/regtech-horizon/regtech-backend/internal/middleware"
	"github.com/regtech-horizon/regtech-backend/internal/notification"
	"github.com/regtech-horizon/regtech-backend/internal/rbac"
	"github.com/regtech-horizon/regtech-backend/internal/review"
	"github.com/regtech-horizon/regtech-backend/internal/savedsearch"
	"github.com/regtech-horizon/regtech-backend/internal/storage"
	"github.com/regtech-horizon/regtech-backend/internal/subscription"
	"github.com/regtech-horizon/regtech-backend/internal/user"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	router.Use(middleware.RequestID(), middleware.ContextLogger(logger))

	engine := storage.NewEngine(gormDB, logger)

	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}

	// --- Repositories & infrastructure ---
	userRepo := user.NewRepository(engine)
	companyRepo := company.NewRepository(engine)
	outboxRepo := kafka.NewOutboxRepository(gormDB)
	mailer := mail.NewSMTPMailer(logger)
	hub := notification.NewHub(logger)
	gatewayCfg := subscription.GatewayConfigFromEnv()

	// --- Services ---
	notificationService := notification.NewService(engine, hub, logger)
	authService := auth.NewService(engine, userRepo, mailer, outboxRepo, logger)
	userService := user.NewService(userRepo, logger)
	companyService := company.NewService(engine, companyRepo, notificationService, outboxRepo, logger)
	reviewService := review.NewService(engine, logger)
	favoriteService := favorite.NewService(engine, logger)
	savedSearchService := savedsearch.NewService(engine, logger)
	advertisementService := advertisement.NewService(engine, notificationService, logger)
	gateway := subscription.NewFlutterwaveClient(gatewayCfg, logger)
	subscriptionService := subscription.NewService(engine, rdb, gateway, notificationService, mailer, outboxRepo, logger)
	dashboardService := dashboard.NewService(engine, rdb, notificationService, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	companyHandler := company.NewHandlerWithRedis(companyService, rdb)
	reviewHandler := review.NewHandler(reviewService)
	favoriteHandler := favorite.NewHandler(favoriteService, logger)
	savedSearchHandler := savedsearch.NewHandler(savedSearchService)
	advertisementHandler := advertisement.NewHandler(advertisementService)
	subscriptionHandler := subscription.NewHandler(subscriptionService, gatewayCfg.WebhookHash)
	notificationHandler := notification.NewHandler(notificationService, hub, logger)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	// --- Routes ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		user.RegisterRoutes(api, userHandler, userRepo)
		company.RegisterRoutes(api, companyHandler, userRepo, enforcer, rdb)
		review.RegisterRoutes(api, reviewHandler, userRepo, enforcer)
		favorite.RegisterRoutes(api, favoriteHandler, userRepo, enforcer)
		savedsearch.RegisterRoutes(api, savedSearchHandler, userRepo, enforcer)
		advertisement.RegisterRoutes(api, advertisementHandler, userRepo, enforcer)
		subscription.RegisterRoutes(api, subscriptionHandler, userRepo, enforcer)
		notification.RegisterRoutes(api, notificationHandler, userRepo, enforcer)
		dashboard.RegisterRoutes(api, dashboardHandler, userRepo, enforcer)
	}

	return nil
}
