package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/profilesapi/profiles-api/docs"
	"github.com/profilesapi/profiles-api/internal/api/handler"
	"github.com/profilesapi/profiles-api/internal/api/middleware"
	"github.com/profilesapi/profiles-api/internal/core/ports"
)

// Deps carries everything NewRouter wires into the routes.
type Deps struct {
	Accounts  ports.AccountService
	JWTSecret string
	Log       zerolog.Logger
	// Readiness maps a dependency name to its ping, e.g. "mongodb", "redis".
	Readiness map[string]handler.Pinger
	// Registerer and Gatherer back the HTTP metrics; nil means the
	// Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "profiles",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	accountHandler := handler.NewAccountHandler(deps.Accounts)
	authHandler := handler.NewAuthHandler(deps.Accounts)
	authMiddleware := middleware.Auth(deps.JWTSecret)
	loadAccount := middleware.LoadAccount(deps.Accounts)

	v1 := e.Group("/v1")

	// --- Public routes ---
	v1.POST("/accounts", accountHandler.Register)
	v1.POST("/auth/login", authHandler.Login)

	// --- Authenticated account routes ---
	me := v1.Group("/accounts/me", authMiddleware, loadAccount)
	me.GET("", accountHandler.Me)
	me.PUT("/password", accountHandler.ChangePassword)

	// --- Admin routes ---
	admin := v1.Group("/admin", authMiddleware, loadAccount)
	admin.POST("/superusers", accountHandler.CreateSuperUser, middleware.RequireSuperuser())
	admin.GET("/accounts/:email", accountHandler.Get, middleware.RequireStaff())
	admin.PATCH("/accounts/:email/active", accountHandler.SetActive, middleware.RequireSuperuser())

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Error != nil {
				event = log.Warn().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
