package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/craftstore/backend/internal/config"
	"github.com/craftstore/backend/internal/handler"
	"github.com/craftstore/backend/internal/repository"
	"github.com/craftstore/backend/internal/service"
	"github.com/craftstore/backend/internal/validator"
	"github.com/craftstore/backend/pkg/database"
	"github.com/craftstore/backend/pkg/media"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize zerolog based on configuration
	initLogger(cfg)

	// Create context for startup
	ctx := context.Background()

	// Initialize database pool with retry
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Initialize Fiber with production-ready configuration
	app := fiber.New(fiber.Config{
		AppName:      "Craftstore Backend",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    cfg.Server.BodyLimit, // uploads pass through here
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())

	// Initialize validator with custom rules
	validate := validator.New()

	// Media delegate client
	mediaClient := media.NewClient(cfg.Media)

	// Repositories
	userRepo := repository.NewUserRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	designRepo := repository.NewDesignRepository(pool)
	videoRepo := repository.NewVideoReviewRepository(pool)
	proofRepo := repository.NewPaymentProofRepository(pool)
	couponRepo := repository.NewCouponRepository(pool)

	// Services
	authService := service.NewAuthService(userRepo, cfg.Auth)
	userService := service.NewUserService(userRepo, reviewRepo)
	productService := service.NewProductService(productRepo, reviewRepo)
	orderService := service.NewOrderService(pool, orderRepo, productRepo, proofRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo)
	designService := service.NewDesignService(pool, designRepo)
	loyaltyService := service.NewLoyaltyService(videoRepo)
	couponService := service.NewCouponService(pool, couponRepo, userRepo, orderRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, validate)
	userHandler := handler.NewUserHandler(userService, validate)
	productHandler := handler.NewProductHandler(productService, mediaClient, validate)
	orderHandler := handler.NewOrderHandler(orderService, mediaClient, validate)
	reviewHandler := handler.NewReviewHandler(reviewService, mediaClient, validate)
	designHandler := handler.NewDesignHandler(designService, mediaClient, validate)
	loyaltyHandler := handler.NewLoyaltyHandler(loyaltyService, couponService, validate)
	healthHandler := handler.NewHealthHandler(pool)

	auth := handler.AuthRequired(authService)

	// Health
	app.Get("/health", healthHandler.Check)

	// Auth routes
	app.Post("/api/auth/register", authHandler.Register)
	app.Post("/api/auth/login", authHandler.Login)
	app.Post("/api/auth/forgot-password", authHandler.ForgotPassword)
	app.Post("/api/auth/reset-password", authHandler.ResetPassword)

	// User routes
	app.Get("/api/users/me", auth, userHandler.Me)
	app.Put("/api/users/me", auth, userHandler.UpdateMe)

	// Product routes
	app.Get("/api/products", productHandler.List)
	app.Post("/api/products", auth, productHandler.Create)
	app.Get("/api/products/:id", productHandler.Get)
	app.Put("/api/products/:id", auth, productHandler.Update)
	app.Delete("/api/products/:id", auth, productHandler.Delete)
	app.Put("/api/products/:id/stock", auth, productHandler.UpdateStock)
	app.Get("/api/products/:id/images", productHandler.ListImages)
	app.Post("/api/products/:id/images", auth, productHandler.UploadImage)

	// Order routes. Static segments are registered before :id so they
	// are not captured as ids.
	app.Get("/api/orders/payment-methods", orderHandler.PaymentMethods)
	app.Get("/api/orders/order-statuses", orderHandler.OrderStatuses)
	app.Get("/api/orders/all", auth, orderHandler.ListAll)
	app.Post("/api/orders/guest", orderHandler.CreateGuest)
	app.Get("/api/orders/guest/:id", orderHandler.GetGuest)
	app.Delete("/api/orders/payment-proofs/:id", auth, orderHandler.DeleteProof)
	app.Post("/api/orders", auth, orderHandler.Create)
	app.Get("/api/orders", auth, orderHandler.ListMine)
	app.Get("/api/orders/:id", auth, orderHandler.Get)
	app.Put("/api/orders/:id/status", auth, orderHandler.UpdateStatus)
	app.Post("/api/orders/:id/payment-proofs", auth, orderHandler.UploadProof)
	app.Get("/api/orders/:id/payment-proofs", auth, orderHandler.ListProofs)

	// Review routes
	app.Post("/api/reviews", auth, reviewHandler.Create)
	app.Get("/api/reviews/me", auth, reviewHandler.ListMine)
	app.Get("/api/reviews/product/:id", reviewHandler.ListForProduct)
	app.Put("/api/reviews/:id", auth, reviewHandler.Update)
	app.Delete("/api/reviews/:id", auth, reviewHandler.Delete)
	app.Post("/api/reviews/:id/image", auth, reviewHandler.UploadImage)

	// Design routes
	app.Get("/api/designs/statuses", designHandler.Statuses)
	app.Get("/api/designs", designHandler.List)
	app.Post("/api/designs", auth, designHandler.Create)
	app.Get("/api/designs/:id", designHandler.Get)
	app.Put("/api/designs/:id", auth, designHandler.Update)
	app.Delete("/api/designs/:id", auth, designHandler.Delete)
	app.Put("/api/designs/:id/status", auth, designHandler.UpdateStatus)
	app.Get("/api/designs/:id/votes", designHandler.VoteSummary)
	app.Post("/api/designs/:id/vote", auth, designHandler.CastVote)
	app.Get("/api/designs/:id/vote", auth, designHandler.MyVote)
	app.Delete("/api/designs/:id/vote", auth, designHandler.RemoveVote)

	// Loyalty routes
	app.Get("/api/loyalty/platforms", loyaltyHandler.Platforms)
	app.Get("/api/loyalty/video-review-statuses", loyaltyHandler.VideoReviewStatuses)
	app.Post("/api/loyalty/video-reviews", auth, loyaltyHandler.SubmitVideoReview)
	app.Get("/api/loyalty/video-reviews", auth, loyaltyHandler.ListVideoReviews)
	app.Get("/api/loyalty/video-reviews/:id", auth, loyaltyHandler.GetVideoReview)
	app.Put("/api/loyalty/video-reviews/:id", auth, loyaltyHandler.UpdateVideoReview)
	app.Delete("/api/loyalty/video-reviews/:id", auth, loyaltyHandler.DeleteVideoReview)
	app.Put("/api/loyalty/video-reviews/:id/status", auth, loyaltyHandler.SetVideoReviewStatus)
	app.Post("/api/loyalty/coupons/validate", auth, loyaltyHandler.ValidateCoupon)
	app.Post("/api/loyalty/coupons/redeem", auth, loyaltyHandler.RedeemCoupon)
	app.Get("/api/loyalty/coupons/me", auth, loyaltyHandler.ListMyCoupons)
	app.Post("/api/loyalty/coupons", auth, loyaltyHandler.IssueCoupon)
	app.Get("/api/loyalty/coupons", auth, loyaltyHandler.ListAllCoupons)
	app.Delete("/api/loyalty/coupons/:id", auth, loyaltyHandler.DeactivateCoupon)

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close database pool AFTER server shutdown (even if shutdown timed out)
	log.Info().Msg("closing database connections...")
	pool.Close()
	log.Info().Msg("database connections closed")
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
