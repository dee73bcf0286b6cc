package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// RouteRegistrar is implemented by every feature handler.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps lists the handlers mounted under /api/v1.
type RouterDeps struct {
	Config config.Config
	Routes []RouteRegistrar
	// DevRoutes are mounted under /api/v1/dev in dev-like environments only.
	DevRoutes []func(rg *gin.RouterGroup)
	// Health reports component status for GET /api/v1/health.
	Health func() map[string]any
	// RateLimiter is shared across routers; nil creates a fresh one.
	RateLimiter *middleware.RateLimiter
}

// Route groups that get stricter rate limits than DEFAULT. The longest
// matching prefix wins, so reading analysis history stays in DEFAULT.
var rateGroups = map[string]string{
	"/api/v1/analyses/":              middleware.RateGroupAI,
	"/api/v1/analyses/:id":           "DEFAULT",
	"/api/v1/cover-letters":          middleware.RateGroupAI,
	"/api/v1/documents/:id/parse":    middleware.RateGroupAI,
	"/api/v1/jobs/fetch-description": middleware.RateGroupAI,
	"/api/v1/cover-letters/pdf":      middleware.RateGroupExport,
	"/api/v1/profile/pdf":            middleware.RateGroupExport,
}

var rateRules = map[string]middleware.RateLimitRule{
	"DEFAULT":                  {Rate: 10, Burst: 40},
	middleware.RateGroupAI:     {Rate: 0.2, Burst: 5},
	middleware.RateGroupExport: {Rate: 0.5, Burst: 3},
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if !config.IsDevLike(deps.Config.Env) {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)
	r.GET("/metrics", metrics.Handler())

	started := time.Now()
	api := r.Group("/api/v1")
	api.Use(
		middleware.Auth(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    rateRules,
			GroupFor: middleware.GroupByRoutePrefix(rateGroups),
			Limiter:  deps.RateLimiter,
		}),
	)
	api.GET("/health", func(c *gin.Context) {
		body := gin.H{"ok": true, "uptimeSeconds": int(time.Since(started).Seconds())}
		if deps.Health != nil {
			for k, v := range deps.Health() {
				body[k] = v
			}
		}
		respond.JSON(c, http.StatusOK, body)
	})

	for _, h := range deps.Routes {
		if h != nil {
			h.RegisterRoutes(api)
		}
	}
	if config.IsDevLike(deps.Config.Env) && len(deps.DevRoutes) > 0 {
		dev := api.Group("/dev")
		for _, register := range deps.DevRoutes {
			register(dev)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		respond.NotFound(c, "route not found")
	})
	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
