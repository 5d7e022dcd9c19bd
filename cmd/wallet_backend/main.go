package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/wallet_app/internal/adapters/messaging/rabbitmq"
	"github.com/SscSPs/wallet_app/internal/adapters/reputation"
	portsrepo "github.com/SscSPs/wallet_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/wallet_app/internal/core/ports/services"
	"github.com/SscSPs/wallet_app/internal/core/services"
	"github.com/SscSPs/wallet_app/internal/handlers"
	"github.com/SscSPs/wallet_app/internal/middleware"
	"github.com/SscSPs/wallet_app/internal/platform/config"
	"github.com/SscSPs/wallet_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/wallet_app/internal/repositories/memory"
	"github.com/SscSPs/wallet_app/internal/utils"
	"github.com/SscSPs/wallet_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// @title Wallet Backend API
// @version 1.0
// @description Accounts, deposits, withdrawals and transfers.

// @host localhost:8080
// @BasePath /api/wallet

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := setupRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRepos()

	var checker portssvc.ReputationChecker = reputation.NewKarmaClient(cfg.KarmaBaseURL, cfg.KarmaAPIKey)
	if cfg.SkipReputationCheck {
		logger.Warn("Reputation check disabled")
		checker = reputation.SkipChecker{}
	}

	publisher := setupPublisher(cfg, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Error closing event publisher", slog.String("error", err.Error()))
		}
	}()

	container := services.NewServiceContainer(cfg, repos,
		services.WithReputation(checker),
		services.WithPublisher(publisher),
	)

	redisClient := setupRedis(ctx, cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	loginLimiter, err := middleware.NewRateLimiter(cfg.LoginRateLimit, redisClient)
	if err != nil {
		logger.Error("Failed to create login rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.PosthogMiddleware(posthogClient))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, handlers.Dependencies{
		Services:     container,
		Health:       repos.Health,
		LoginLimiter: loginLimiter,
		Tracker:      posthogClient,
	}); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", slog.String("error", err.Error()))
	}
}

// setupRepositories picks the storage adapter named by cfg.StorageDriver. For postgres it
// also applies pending migrations.
func setupRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Warn("Using in-memory storage, data is lost on restart")
		return memory.NewRepositoryProvider(), func() {}, nil
	}

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck, logger)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")
	return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool, logger) }, nil
}

func setupPublisher(cfg *config.Config, logger *slog.Logger) portssvc.EventPublisher {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP_URL not set, ledger events will not be published")
		return rabbitmq.NoopPublisher{Logger: logger}
	}
	publisher, err := rabbitmq.NewPublisher(cfg.AMQPURL, logger)
	if err != nil {
		logger.Warn("RabbitMQ unavailable, ledger events will not be published", slog.String("error", err.Error()))
		return rabbitmq.NoopPublisher{Logger: logger}
	}
	logger.Info("Publishing ledger events to RabbitMQ", slog.String("exchange", rabbitmq.ExchangeName))
	return publisher
}

// setupRedis returns nil when REDIS_URL is unset or unreachable; rate limits then stay in process.
func setupRedis(ctx context.Context, cfg *config.Config, logger *slog.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("Invalid REDIS_URL, using in-memory rate limits", slog.String("error", err.Error()))
		return nil
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unreachable, using in-memory rate limits", slog.String("error", err.Error()))
		client.Close()
		return nil
	}
	return client
}
