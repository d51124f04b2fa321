package main

import (
	"log"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/drivetimetales/dtt-backend/internal/config"
	"github.com/drivetimetales/dtt-backend/internal/handler"
	"github.com/drivetimetales/dtt-backend/internal/middleware"
	"github.com/drivetimetales/dtt-backend/internal/repository"
	"github.com/drivetimetales/dtt-backend/internal/service"
	"github.com/drivetimetales/dtt-backend/pkg/catalog"
	"github.com/drivetimetales/dtt-backend/pkg/database"
	"github.com/drivetimetales/dtt-backend/pkg/email"
	"github.com/drivetimetales/dtt-backend/pkg/logger"
	"github.com/drivetimetales/dtt-backend/pkg/news"
	"github.com/drivetimetales/dtt-backend/pkg/payment"
	"github.com/drivetimetales/dtt-backend/pkg/qrcode"
	"github.com/drivetimetales/dtt-backend/pkg/storage"
	"github.com/drivetimetales/dtt-backend/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.LoadConfig()

	zapLogger, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: os.Getenv("APP_ENV"),
		}); err != nil {
			zapLogger.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Product catalog: compiled-in defaults, JSON override via CATALOG_PATH.
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		cat, err = catalog.Load(cfg.CatalogPath)
		if err != nil {
			log.Fatalf("Failed to load catalog: %v", err)
		}
	}

	db := database.NewDatabase(cfg.DatabaseURL)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	storyRepo := repository.NewStoryRepository(db)
	libraryRepo := repository.NewLibraryRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	webhookRepo := repository.NewWebhookEventRepository(db)
	newsRepo := repository.NewNewsRepository(db)

	// Storage
	r2Storage, err := storage.NewR2Storage(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize R2 storage: %v", err)
	}

	// External services
	emailService := email.NewEmailService()
	stripeService := payment.NewStripeService(cfg.Stripe.SecretKey)
	qrService := qrcode.NewQRService(cfg.BaseURL + "/signup?ref=")
	fetcher := news.NewFetcher()

	// Services
	referralService := service.NewReferralService(db, userRepo, referralRepo, emailService, qrService, zapLogger)
	authService := service.NewAuthService(userRepo, referralService, emailService, zapLogger)
	userService := service.NewUserService(userRepo)
	storyService := service.NewStoryService(storyRepo, r2Storage)
	libraryService := service.NewLibraryService(db, userRepo, storyRepo, libraryRepo, cat, r2Storage, emailService, zapLogger)
	wishlistService := service.NewWishlistService(wishlistRepo, storyRepo)
	reviewService := service.NewReviewService(reviewRepo, storyRepo, libraryRepo)
	paymentService := service.NewPaymentService(db, userRepo, storyRepo, libraryRepo, purchaseRepo, webhookRepo, newsRepo, cat, stripeService, zapLogger, cfg.BaseURL)
	newsService := service.NewNewsService(newsRepo, fetcher, r2Storage, zapLogger, cfg.News.ElevenLabsAPIKey)

	validator := utils.NewValidator()

	// Handlers
	authHandler := handler.NewAuthHandler(authService, validator)
	userHandler := handler.NewUserHandler(userService, validator)
	storyHandler := handler.NewStoryHandler(storyService, reviewService, validator)
	libraryHandler := handler.NewLibraryHandler(libraryService, validator)
	wishlistHandler := handler.NewWishlistHandler(wishlistService, validator)
	reviewHandler := handler.NewReviewHandler(reviewService, validator)
	referralHandler := handler.NewReferralHandler(referralService)
	paymentHandler := handler.NewPaymentHandler(paymentService, cat, validator, zapLogger, cfg.Stripe.WebhookSecret)
	uploadHandler := handler.NewUploadHandler(r2Storage, validator)
	newsHandler := handler.NewNewsHandler(newsService, validator)

	app := fiber.New(fiber.Config{
		BodyLimit: 32 * 1024 * 1024, // direct sample uploads
	})

	if cfg.SentryDSN != "" {
		app.Use(sentryfiber.New(sentryfiber.Options{
			Repanic:         true,
			WaitForDelivery: false,
		}))
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Cron-Secret",
		AllowMethods:     "GET, POST, PUT, DELETE",
		AllowCredentials: true,
	}))
	app.Use(fiberlogger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	api := app.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	stories := api.Group("/stories")
	stories.Get("/", storyHandler.List)
	stories.Get("/:id", storyHandler.Get)
	stories.Get("/:id/sample", storyHandler.Sample)
	stories.Get("/:id/reviews", storyHandler.ListReviews)

	api.Get("/products", paymentHandler.Products)
	api.Get("/referrals/check/:code", referralHandler.CheckCode)
	api.Get("/news/archive", newsHandler.Archive)

	// Stripe webhook: signature-verified, never JWT-authenticated
	api.Post("/payments/webhook", paymentHandler.HandleStripeWebhook)

	// Authenticated routes
	authed := api.Group("/", middleware.AuthMiddleware())

	authed.Get("/me", userHandler.GetProfile)
	authed.Put("/me", userHandler.UpdateProfile)

	library := authed.Group("/library")
	library.Get("/", libraryHandler.List)
	library.Post("/purchase", libraryHandler.Purchase)
	library.Put("/:id/progress", libraryHandler.UpdateProgress)
	library.Get("/:id/stream", libraryHandler.Stream)

	wishlist := authed.Group("/wishlist")
	wishlist.Get("/", wishlistHandler.List)
	wishlist.Post("/", wishlistHandler.Add)
	wishlist.Delete("/:id", wishlistHandler.Remove)

	reviews := authed.Group("/reviews")
	reviews.Post("/", reviewHandler.Submit)
	reviews.Delete("/:id", reviewHandler.Delete)

	referrals := authed.Group("/referrals")
	referrals.Get("/stats", referralHandler.Stats)
	referrals.Get("/qr", referralHandler.ShareQR)
	referrals.Post("/apply", referralHandler.Apply)

	payments := authed.Group("/payments")
	payments.Post("/checkout", paymentHandler.CreateCheckoutSession)
	payments.Post("/quick-purchase", paymentHandler.QuickPurchase)
	payments.Post("/portal", paymentHandler.CreatePortalSession)
	payments.Post("/cancel-subscription", paymentHandler.CancelSubscription)
	payments.Get("/history", paymentHandler.History)

	newsGroup := authed.Group("/news")
	newsGroup.Get("/latest", newsHandler.Latest)
	newsGroup.Get("/:id/stream", newsHandler.Stream)

	// Admin routes
	admin := api.Group("/admin", middleware.AdminMiddleware(cfg.AdminPassword))
	admin.Post("/stories", storyHandler.Publish)
	admin.Post("/uploads/presign", uploadHandler.Presign)
	admin.Post("/uploads", uploadHandler.Direct)
	admin.Post("/news/generate", newsHandler.Generate)
	admin.Get("/news/episodes", newsHandler.ListEpisodes)
	admin.Get("/news/settings", newsHandler.GetSettings)
	admin.Put("/news/settings", newsHandler.UpdateSettings)

	// Cron trigger for the briefing scheduler
	api.Post("/cron/news", middleware.CronMiddleware(cfg.News.CronSecret), newsHandler.RunScheduler)

	zapLogger.Info("server starting", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zapLogger.Fatal("server failed to start", zap.Error(err))
	}
}
