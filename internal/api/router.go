// Package api wires the HTTP surface: routes, middleware, validation and
// error mapping.
package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/contactbook/contacts-api/docs"
	"github.com/contactbook/contacts-api/internal/api/handler"
	"github.com/contactbook/contacts-api/internal/api/middleware"
	"github.com/contactbook/contacts-api/internal/core/domain"
	"github.com/contactbook/contacts-api/internal/core/ports"
	"github.com/contactbook/contacts-api/internal/core/service"
	"github.com/contactbook/contacts-api/internal/core/token"
	"github.com/contactbook/contacts-api/internal/infrastructure/config"
	contactsmongo "github.com/contactbook/contacts-api/internal/infrastructure/db/mongo"
	contactsredis "github.com/contactbook/contacts-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	cfg *config.Config,
	db *mongo.Database,
	rdb *redis.Client,
	emails ports.EmailDispatcher,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("contacts"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Dependencies ---
	userRepo := contactsmongo.NewUserRepository(db)
	contactRepo := contactsmongo.NewContactRepository(db)
	userCache := contactsredis.NewUserCache(rdb, time.Duration(cfg.Redis.CacheTTLSeconds)*time.Second, log)
	codec := token.NewCodec(cfg.JWT.Secret)

	authService := service.NewAuthService(
		userRepo,
		userCache,
		codec,
		emails,
		time.Duration(cfg.JWT.ExpirationSeconds)*time.Second,
		cfg.BaseURL,
		log,
	)
	contactService := service.NewContactService(contactRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	contactHandler := handler.NewContactHandler(contactService)
	authMiddleware := middleware.Auth(authService)

	// --- Auth routes (no token required) ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/confirmed_email/:token", authHandler.ConfirmEmail)
	e.POST("/auth/request_email", authHandler.RequestEmail)
	e.POST("/auth/send-reset-password-token", authHandler.SendResetToken)
	e.GET("/auth/reset-password", authHandler.ResetPasswordForm)
	e.POST("/auth/reset-password", authHandler.ResetPassword)

	// --- Authenticated API ---
	apiGroup := e.Group("/api", authMiddleware)

	users := apiGroup.Group("/users")
	users.GET("/me", authHandler.Me)
	users.PATCH("/avatar", authHandler.UpdateAvatar, middleware.RequireRole(domain.RoleAdmin))

	contacts := apiGroup.Group("/contacts")
	contacts.GET("", contactHandler.List)
	contacts.POST("", contactHandler.Create)
	contacts.GET("/search", contactHandler.Search)
	contacts.GET("/birthdays", contactHandler.Birthdays)
	contacts.GET("/:id", contactHandler.Get)
	contacts.PATCH("/:id", contactHandler.Update)
	contacts.DELETE("/:id", contactHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
