package http

import (
	"github.com/atimics/chat/internal/config"
	"github.com/atimics/chat/internal/http/handlers"
	"github.com/atimics/chat/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	adminHandler *handlers.AdminHandler,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":              "ok",
			"authorized_creators": len(cfg.AuthorizedCreators),
		})
	})

	// Authentication, rate limited as a whole: nonce and verify share one
	// fixed window per caller.
	authGroup := app.Group("/auth", middleware.RateLimitMiddleware(rdb, "auth", cfg.RateLimitMax, cfg.RateLimitWindow))
	authGroup.Post("/nonce", authHandler.RequestNonce)
	authGroup.Post("/verify", authHandler.Verify)

	// Authenticated API
	api := app.Group("/api")
	api.Get("/stats", adminHandler.GetStats)

	protected := api.Group("", middleware.AuthMiddleware(cfg, log))
	protected.Get("/me", userHandler.GetMe)

	// Admin surface
	admin := app.Group("/admin", middleware.AdminMiddleware(cfg))
	admin.Get("/users", adminHandler.ListUsers)
}
