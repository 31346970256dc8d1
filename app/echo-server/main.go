package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golfProShop/app/echo-server/router"
	"golfProShop/business/analytics"
	"golfProShop/business/cart"
	"golfProShop/business/category"
	"golfProShop/business/collections"
	"golfProShop/business/notice"
	"golfProShop/business/orders"
	"golfProShop/business/payments"
	"golfProShop/business/product"
	"golfProShop/business/review"
	userService "golfProShop/business/user"
	"golfProShop/domain"
	"golfProShop/internal/middleware"
	mongoRepo "golfProShop/internal/repository/mongo"
	"golfProShop/internal/repository/notification"
	psqlRepo "golfProShop/internal/repository/postgres"
	redisRepo "golfProShop/internal/repository/redis"
	"golfProShop/internal/repository/xendit"
	"golfProShop/internal/rest"
	"golfProShop/pkg/config"
	"golfProShop/pkg/database"
	mongodb "golfProShop/pkg/database/mongo"
	redisdb "golfProShop/pkg/database/redis"
	"golfProShop/pkg/logger"
	"golfProShop/pkg/metrics"
	"golfProShop/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Golf Pro Shop", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err)
	}
	defer func() {
		if err := redisdb.CloseRedisClient(redisClient); err != nil {
			logger.Error("Failed to close Redis client", err)
		}
	}()

	mongoDB, err := mongodb.NewMongoDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", "error", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoDB.Close(ctx); err != nil {
			logger.Error("Failed to close MongoDB client", err)
		}
	}()

	// Init notification from mailjet
	mailjetEmail := notification.NewMailjetRepository(
		notification.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)

	xenditRepo := xendit.NewXenditRepository(
		xendit.XenditConfig{
			XenditApi:          cfg.Xendit.XenditSecretKey,
			XenditUrl:          cfg.Xendit.XenditUrl,
			SuccessRedirectUrl: cfg.Xendit.RedirectUrl,
			FailureRedirectUrl: cfg.Xendit.RedirectUrl,
		},
	)

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	ordersRepo := psqlRepo.NewOrdersRepository(db)
	productsRepo := psqlRepo.NewProductRepository(db)
	paymentsRepo := psqlRepo.NewPaymentsRepository(db)
	categoryRepo := psqlRepo.NewCategoryRepository(db)
	cartRepo := psqlRepo.NewCartRepository(db)
	reviewRepo := psqlRepo.NewReviewRepository(db)
	noticeRepo := psqlRepo.NewNoticeRepository(db)

	guestTTL := time.Duration(cfg.Shop.GuestCartTTLDays) * 24 * time.Hour
	guestStore := redisRepo.NewGuestCollectionStore(redisClient, guestTTL)
	tokenRepo := redisRepo.NewTokenRepository(redisClient)

	visitRepo := mongoRepo.NewVisitRepository(mongoDB)

	// Init service
	cartService := cart.NewCartService(cartRepo, guestStore, productsRepo)
	collectionsService := collections.NewService(cartRepo, guestStore, cfg.Shop.RecentlyViewedCap)

	reconcilers := []userService.CollectionReconciler{
		cartService,
		collectionsService.Reconciler(domain.CollectionWishlist),
		collectionsService.Reconciler(domain.CollectionRecentlyViewed),
	}

	users := userService.NewUserService(userRepo, validate, mailjetEmail, tokenRepo, reconcilers,
		cfg.App.AppEmailVerificationKey, cfg.App.AppDeploymentUrl)
	productService := product.NewProductService(productsRepo, cfg.Shop.LowStockThreshold)
	categoryService := category.NewCategoryService(categoryRepo)
	ordersService := orders.NewOrdersService(ordersRepo, cartService, productsRepo)
	paymentsService := payments.NewPaymentsService(paymentsRepo, xenditRepo, userRepo, ordersRepo, ordersService)
	reviewService := review.NewReviewService(reviewRepo, ordersRepo)
	noticeService := notice.NewNoticeService(noticeRepo)
	analyticsService := analytics.NewAnalyticsService(ordersRepo, visitRepo, cfg.Shop.AnalyticsTopN)

	// Init handler
	userHandler := rest.NewUserHandler(users)
	productHandler := rest.NewProductHandler(productService)
	categoryHandler := rest.NewCategoryHandler(categoryService)
	cartHandler := rest.NewCartHandler(cartService)
	collectionsHandler := rest.NewCollectionsHandler(collectionsService)
	ordersHandler := rest.NewOrdersHandler(ordersService)
	paymentsHandler := rest.NewPaymentsHandler(paymentsService, cfg.Xendit.XenditWebhookVerificationToken)
	reviewHandler := rest.NewReviewHandler(reviewService)
	noticeHandler := rest.NewNoticeHandler(noticeService)
	analyticsHandler := rest.NewAnalyticsHandler(analyticsService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(middleware.GuestSession(guestTTL))
	e.Use(middleware.RequestMetrics())
	e.Use(middleware.TrackVisits(visitRepo))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth middleware
	authRequired := middleware.AuthMiddlewareWithStore(tokenRepo)
	adminOnly := middleware.AdminOnly()
	selfOrAdmin := middleware.SelfOrAdmin()
	optionalAuth := middleware.OptionalAuth()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired, adminOnly, selfOrAdmin)
	router.SetupProductRoutes(api, productHandler, authRequired, adminOnly)
	router.SetupCategoryRoutes(api, categoryHandler, authRequired, adminOnly)
	router.SetupCartRoutes(api, cartHandler, optionalAuth)
	router.SetupCollectionRoutes(api, collectionsHandler, optionalAuth)
	router.SetupOrdersRoutes(api, ordersHandler, authRequired, adminOnly)
	router.SetupPaymentsRoutes(api, paymentsHandler, authRequired, adminOnly)
	router.SetupReviewRoutes(api, reviewHandler, authRequired, optionalAuth, adminOnly)
	router.SetupNoticeRoutes(api, noticeHandler, authRequired, adminOnly)
	router.SetupAnalyticsRoutes(api, analyticsHandler, authRequired, adminOnly)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
