package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sniperthink/identity-service/internal/api/handler"
	"github.com/sniperthink/identity-service/internal/api/middleware"
	"github.com/sniperthink/identity-service/internal/core/domain"
	"github.com/sniperthink/identity-service/internal/core/ports"
	"github.com/sniperthink/identity-service/internal/core/service"
	"github.com/sniperthink/identity-service/internal/infrastructure/config"
	mongodb "github.com/sniperthink/identity-service/internal/infrastructure/db/mongo"
	redisdb "github.com/sniperthink/identity-service/internal/infrastructure/db/redis"
	"github.com/sniperthink/identity-service/internal/oauth"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, notifier ports.Notifier, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{"http://127.0.0.1:5500", "http://localhost:5500"},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	loginRepo := mongodb.NewLoginRecordRepository(db)

	tokens := service.NewTokenService(service.TokenConfig{
		Secret:       cfg.JWTSecret,
		AccessTTL:    cfg.AccessTokenTTL,
		RefreshTTL:   cfg.RefreshTokenTTL,
		SingleUseTTL: cfg.SingleUseTokenTTL,
	})
	hasher := service.NewBcryptHasher(0)
	limiter := service.NewRateLimiter(cfg.RateLimitAttempts, cfg.RateLimitWindow)

	providers := oauth.NewRegistry(
		oauth.NewGoogle(oauth.GoogleConfig{
			ClientID:     cfg.OAuth.GoogleClientID,
			ClientSecret: cfg.OAuth.GoogleClientSecret,
		}),
		oauth.NewGitHub(oauth.GitHubConfig{
			ClientID:     cfg.OAuth.GitHubClientID,
			ClientSecret: cfg.OAuth.GitHubClientSecret,
		}),
	)
	states := redisdb.NewStateStore(rdb, 0)

	authService := service.NewAuthService(service.AuthServiceConfig{
		Users:     userRepo,
		Logins:    loginRepo,
		Tokens:    tokens,
		Hasher:    hasher,
		Limiter:   limiter,
		Providers: providers,
		States:    states,
		Notifier:  notifier,
		URLs: service.RedirectURLs{
			Success:           cfg.Frontend.SuccessURL,
			Error:             cfg.Frontend.ErrorURL,
			VerifyEmail:       cfg.Frontend.VerifyEmailURL,
			ResetPassword:     cfg.Frontend.ResetPasswordURL,
			OAuthCallbackBase: cfg.OAuth.CallbackBaseURL,
		},
		Logger: log,
	})

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService)
	adminHandler := handler.NewAdminHandler(authService)

	authMiddleware := middleware.Auth(tokens, userRepo)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Root ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Welcome to the identity service"})
	})

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/token", authHandler.Token)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/verify-email", authHandler.VerifyEmail)
	e.POST("/auth/forgot-password", authHandler.ForgotPassword)
	e.POST("/auth/reset-password", authHandler.ResetPassword)
	e.GET("/auth/login/:provider", authHandler.SocialLogin)
	e.GET("/auth/callback/:provider", authHandler.SocialCallback)

	// --- User routes ---
	users := e.Group("/users", authMiddleware)
	users.GET("/me", userHandler.Me)
	users.GET("/all", userHandler.All, adminOnly)

	// --- Admin routes ---
	admin := e.Group("/admin", authMiddleware, adminOnly)
	admin.GET("/users", adminHandler.Users)
	admin.GET("/login-history", adminHandler.LoginHistory)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	return e
}
