package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portal-backend/internal/ingestion"
	"portal-backend/internal/profiles"
	"portal-backend/internal/shared/config"
	"portal-backend/internal/shared/metrics"
	"portal-backend/internal/shared/server/middleware"
	"portal-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config         config.Config
	IngestHandler  *ingestion.Handler
	ProfileHandler *profiles.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	authed := api.Group("")
	authed.Use(middleware.Identity(), middleware.RateLimit(importRateLimit()))
	registerMeRoutes(authed)
	if deps.IngestHandler != nil {
		deps.IngestHandler.RegisterRoutes(authed)
	}
	if deps.ProfileHandler != nil {
		deps.ProfileHandler.Register(authed)
	}

	return r
}

// importRateLimit keeps the provider-backed import endpoint tighter than the
// read endpoints. Reads are left unthrottled.
func importRateLimit() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/profiles/import" {
				return "IMPORT"
			}
			return "DEFAULT"
		},
		Rules: map[string]middleware.RateLimitRule{
			"IMPORT": {Rate: 0.5, Burst: 5},
		},
	}
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
