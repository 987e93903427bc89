package api

import (
	"math"
	"net/http"
	"sync"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/openshelf/catalog-api/docs"
	"github.com/openshelf/catalog-api/internal/api/handler"
	"github.com/openshelf/catalog-api/internal/api/middleware"
	"github.com/openshelf/catalog-api/internal/core/domain"
	"github.com/openshelf/catalog-api/internal/core/ports"
)

const bodyLimit = "1M"

// echoprometheus registers its collectors on the default registry, which
// allows a single registration per process.
var httpMetrics = sync.OnceValue(func() echo.MiddlewareFunc {
	return echoprometheus.NewMiddleware("catalog_http")
})

// Deps are the services the HTTP surface is built on.
type Deps struct {
	Sessions    ports.SessionService
	Credentials ports.CredentialChecker
	Catalog     ports.CatalogService
	Gallery     ports.GalleryService
	Images      ports.ImageService
	Health      handler.Pinger

	SourcePath     string
	CatalogCache   handler.CacheOptions
	LoginRateLimit float64
	Log            zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(httpMetrics())

	// --- Dependencies ---
	sessionHandler := handler.NewSessionHandler(d.Sessions, d.Credentials, d.Log)
	catalogHandler := handler.NewCatalogHandler(d.Catalog, d.CatalogCache)
	galleryHandler := handler.NewGalleryHandler(d.Gallery)
	imageHandler := handler.NewImageHandler(d.Images, d.Log)
	healthHandler := handler.NewHealthHandler(d.Health, d.SourcePath)

	requireSession := middleware.Session(d.Sessions)
	requireWriter := middleware.RBAC(domain.RoleOwner, domain.RoleAdmin)

	api := e.Group("/api")

	// --- Session ---
	api.POST("/admin/login", sessionHandler.Login, loginLimiter(d.LoginRateLimit))
	api.GET("/session", sessionHandler.Verify)
	api.POST("/logout", sessionHandler.Logout)

	// --- Catalog ---
	api.GET("/catalog", catalogHandler.List)
	api.GET("/catalog/:id", catalogHandler.Get)
	api.POST("/admin/catalog/refresh", catalogHandler.Refresh, requireSession, requireWriter)

	// --- Gallery ---
	api.GET("/gallery", galleryHandler.List)
	api.GET("/gallery/:id", galleryHandler.Get)
	api.POST("/gallery", galleryHandler.Add, requireSession, requireWriter)
	api.DELETE("/gallery/:id", galleryHandler.Remove, requireSession, requireWriter)

	// --- Images ---
	api.DELETE("/images/:id", imageHandler.Delete, requireSession, requireWriter)
	api.POST("/images/delete", imageHandler.Delete, requireSession, requireWriter)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// loginLimiter throttles password attempts per client IP. perSecond <= 0
// disables the limit.
func loginLimiter(perSecond float64) echo.MiddlewareFunc {
	if perSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:  rate.Limit(perSecond),
			Burst: max(1, int(math.Ceil(perSecond))),
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(http.StatusTooManyRequests, errorResponse{Error: "too many login attempts"})
		},
	})
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
