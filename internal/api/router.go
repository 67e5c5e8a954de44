package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/teamportal/identity-service/docs"
	"github.com/teamportal/identity-service/internal/api/handler"
	"github.com/teamportal/identity-service/internal/api/middleware"
	"github.com/teamportal/identity-service/internal/api/session"
	"github.com/teamportal/identity-service/internal/core/domain"
	"github.com/teamportal/identity-service/internal/core/service"
	"github.com/teamportal/identity-service/internal/infrastructure/config"
	mongostore "github.com/teamportal/identity-service/internal/infrastructure/db/mongo"
	redisstore "github.com/teamportal/identity-service/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes
// registered. audit receives auth events from the handlers' services;
// its lifecycle (start/drain) belongs to the caller.
func NewRouter(db *mongo.Database, rdb *redis.Client, audit service.AuditSink, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	userRepo := mongostore.NewUserRepository(db)
	eventRepo := mongostore.NewAuthEventRepository(db)
	statsCache := redisstore.NewStatsCache(rdb)

	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokenService, audit, log)
	userService := service.NewUserService(userRepo, statsCache, log)
	auditService := service.NewAuditService(eventRepo)

	cookies := session.NewTransport(tokenService.TTL(), cfg.IsProduction())

	authHandler := handler.NewAuthHandler(authService, cookies)
	userHandler := handler.NewUserHandler(userService)
	auditHandler := handler.NewAuditHandler(auditService)

	authGate := middleware.Auth(tokenService, userRepo, cookies)
	adminGate := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, authGate)

	// --- Protected routes ---
	e.GET("/profile", userHandler.Profile, authGate)

	admin := e.Group("/admin", authGate, adminGate)
	admin.GET("", userHandler.Admin)
	admin.GET("/audit", auditHandler.Recent)

	// --- Observability & docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
