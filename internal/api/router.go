package api

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"github.com/notesaas/notes-api/internal/api/handler"
	"github.com/notesaas/notes-api/internal/api/middleware"
	"github.com/notesaas/notes-api/internal/core/domain"
	"github.com/notesaas/notes-api/internal/core/ports"
	"github.com/notesaas/notes-api/internal/infrastructure/http/handlers"
	"github.com/notesaas/notes-api/internal/pkg/config"
)

const loginLimiterExpiry = 3 * time.Minute

// Deps carries everything the router needs to build the handlers.
type Deps struct {
	HTTP    config.HTTPConfig
	Log     zerolog.Logger
	Tokens  ports.TokenService
	Auth    ports.AuthService
	Notes   ports.NoteService
	Plans   ports.PlanService
	Tenants ports.TenantRepository
	// Readiness lists the dependency probes served at /health/ready.
	Readiness map[string]handlers.Check
	// Metrics receives the HTTP request series. Nil means the default
	// Prometheus registry.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	registerer, gatherer := metricsRegistry(deps.Metrics)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:                 "notes",
		Subsystem:                 "http",
		Registerer:                registerer,
		DoNotUseRequestPathFor404: true,
	}))
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.HTTP.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	noteHandler := handler.NewNoteHandler(deps.Notes)
	tenantHandler := handler.NewTenantHandler(deps.Plans)
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Readiness)

	authenticate := middleware.Authenticate(deps.Tokens)
	resolveTenant := middleware.ResolveTenant(deps.Tenants)
	enforceQuota := middleware.EnforceQuota(deps.Plans, deps.Notes)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Operational routes (outside the API prefix) ---
	e.GET("/", indexHandler(e, deps.HTTP.BasePath))
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group(deps.HTTP.BasePath)

	// --- Health probes (no auth required) ---
	api.GET("/health", healthHandler.Liveness)
	api.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Auth routes ---
	api.POST("/login", authHandler.Login, loginLimiter(deps.HTTP))

	// --- Note routes ---
	notes := api.Group("/notes", authenticate, resolveTenant)
	notes.GET("", noteHandler.List)
	notes.POST("", noteHandler.Create, enforceQuota)
	notes.GET("/:id", noteHandler.Get)
	notes.PUT("/:id", noteHandler.Update)
	notes.DELETE("/:id", noteHandler.Delete)

	// --- Tenant plan routes ---
	tenants := api.Group("/tenants/:slug", authenticate)
	tenants.POST("/upgrade", tenantHandler.Upgrade, resolveTenant, adminOnly)
	tenants.POST("/downgrade", tenantHandler.Downgrade, resolveTenant, adminOnly)
	tenants.GET("/plan", tenantHandler.GetPlan)

	return e
}

// metricsRegistry returns where HTTP series are registered and what /metrics
// serves. A private registry is gathered together with the default one so the
// domain counters stay visible.
func metricsRegistry(reg *prometheus.Registry) (prometheus.Registerer, prometheus.Gatherer) {
	if reg == nil {
		return prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	}
	return reg, prometheus.Gatherers{reg, prometheus.DefaultGatherer}
}

// loginLimiter throttles login attempts per client IP.
func loginLimiter(cfg config.HTTPConfig) echo.MiddlewareFunc {
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(cfg.LoginRate),
		Burst:     cfg.LoginBurst,
		ExpiresIn: loginLimiterExpiry,
	})
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "unable to identify client").SetInternal(err)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
		},
	})
}

type indexResponse struct {
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints"`
}

// indexHandler lists the API routes registered under basePath.
func indexHandler(e *echo.Echo, basePath string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var endpoints []string
		for _, r := range e.Routes() {
			if r.Method == echo.RouteNotFound || !strings.HasPrefix(r.Path, basePath+"/") {
				continue
			}
			endpoints = append(endpoints, r.Method+" "+r.Path)
		}
		sort.Strings(endpoints)
		return c.JSON(http.StatusOK, indexResponse{
			Message:   "Notes Backend API is running",
			Endpoints: endpoints,
		})
	}
}
