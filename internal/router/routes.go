package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/complaint-helper/api/internal/config"
	"github.com/octobees/complaint-helper/api/internal/handler"
	middlewarepkg "github.com/octobees/complaint-helper/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Lookup *handler.LookupHandler
	Tidy   *handler.TidyHandler
}

// Register wires all HTTP routes for the API and sets how client IPs are
// derived for rate limiting. companies is the size of the
// loaded directory and is reported by the health check.
func Register(e *echo.Echo, cfg *config.Config, companies int, handlers Handlers) {
	e.IPExtractor = middlewarepkg.ClientIPExtractor(cfg.TrustedProxies)

	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{
			"status":    "ok",
			"companies": companies,
		})
	})

	api := e.Group("/api")
	api.GET("/getSocialHandles", handlers.Lookup.GetSocialHandles,
		middlewarepkg.RateLimiter(cfg.RateLimitLookup, "lookup rate limit exceeded"))

	if handlers.Tidy != nil {
		api.POST("/tidyComplaint", handlers.Tidy.TidyComplaint,
			middlewarepkg.RateLimiter(cfg.RateLimitTidy, "tidy rate limit exceeded"))
	}
}
