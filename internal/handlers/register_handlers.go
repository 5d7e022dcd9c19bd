package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/wallet_app/cmd/docs"
	portsrepo "github.com/SscSPs/wallet_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/wallet_app/internal/core/ports/services"
	"github.com/SscSPs/wallet_app/internal/middleware"
	"github.com/SscSPs/wallet_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// BasePath prefixes every API route.
const BasePath = "/api/wallet"

// Dependencies are the collaborators the HTTP layer needs besides the services.
type Dependencies struct {
	Services *portssvc.ServiceContainer
	Health   portsrepo.HealthChecker
	// LoginLimiter guards the login endpoint. A memory-backed limiter using
	// cfg.LoginRateLimit is built when nil.
	LoginLimiter *limiter.Limiter
	Tracker      middleware.EventTracker
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Dependencies) error {
	if err := RegisterValidators(); err != nil {
		return err
	}

	loginLimiter := deps.LoginLimiter
	if loginLimiter == nil {
		var err error
		if loginLimiter, err = middleware.NewRateLimiter(cfg.LoginRateLimit, nil); err != nil {
			return err
		}
	}

	r.GET("/health", func(c *gin.Context) {
		if deps.Health != nil {
			if err := deps.Health.Ping(c.Request.Context()); err != nil {
				middleware.GetLoggerFromCtx(c.Request.Context()).Error("Health check failed", slog.String("error", err.Error()))
				c.String(http.StatusServiceUnavailable, "UNAVAILABLE")
				return
			}
		}
		c.String(http.StatusOK, "OK")
	})

	api := r.Group(BasePath)
	registerUserRoutes(api, cfg, deps.Services, loginLimiter)

	authed := api.Group("", middleware.AuthMiddleware(cfg.JWTSecret, cfg.SessionCookieName))
	registerAccountRoutes(authed, deps.Services.Account)
	registerTransactionRoutes(authed, deps.Services.Transaction, deps.Tracker)

	setupSwaggerRoutes(r, cfg)
	return nil
}

func registerUserRoutes(rg *gin.RouterGroup, cfg *config.Config, services *portssvc.ServiceContainer, loginLimiter *limiter.Limiter) {
	users := newUserHandler(services.User, services.TokenService, cfg)
	google := newGoogleOAuthHandler(services.GoogleOAuthHandler, services.User, users)

	group := rg.Group("/users")
	{
		group.POST("", users.register)
		group.POST("/login", middleware.RateLimit(loginLimiter), users.login)
		group.GET("/oauth/google/url", google.loginURL)
		group.POST("/oauth/google/exchange-code", google.exchangeCode)
	}
}

func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.getAccount)
		accounts.POST("", h.createAccount)
		accounts.DELETE("", h.deleteAccount)
	}
}

func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade, tracker middleware.EventTracker) {
	h := newTransactionHandler(transactionService, tracker)

	txns := rg.Group("/transactions")
	{
		txns.GET("", h.listTransactions)
		txns.GET("/:id", h.getTransaction)
		txns.POST("/deposit", h.deposit)
		txns.POST("/withdraw", h.withdraw)
		txns.POST("/transfer", h.transfer)
	}
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = BasePath
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
