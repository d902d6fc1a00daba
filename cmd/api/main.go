package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/atimics/chat/internal/config"
	"github.com/atimics/chat/internal/db"
	"github.com/atimics/chat/internal/events"
	apphttp "github.com/atimics/chat/internal/http"
	"github.com/atimics/chat/internal/http/handlers"
	"github.com/atimics/chat/internal/matrix"
	"github.com/atimics/chat/internal/nft"
	"github.com/atimics/chat/internal/repositories"
	"github.com/atimics/chat/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	nonceRepo := repositories.NewNonceRepo(pool)
	identityRepo := repositories.NewIdentityRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)

	// External collaborators
	matrixClient := matrix.NewClient(cfg.MatrixServerURL, cfg.SynapseAdminToken, log)

	var eligibility services.EligibilityChecker
	if cfg.EligibilityMode == "allowlist" {
		eligibility = nft.NewAllowlistChecker(cfg.AllowedWallets)
	} else {
		eligibility = nft.NewIndexerClient(cfg.IndexerBaseURL, cfg.IndexerAPIKey, log)
	}

	// Services
	authService := services.NewAuthService(nonceRepo, identityRepo, eligibility, matrixClient, publisher, cfg, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, cfg, log)
	userHandler := handlers.NewUserHandler(identityRepo, log)
	adminHandler := handlers.NewAdminHandler(identityRepo, cfg, log)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, authHandler, userHandler, adminHandler)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting auth service",
		zap.String("addr", addr),
		zap.String("eligibility_mode", cfg.EligibilityMode),
		zap.Int("authorized_creators", len(cfg.AuthorizedCreators)),
	)
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
