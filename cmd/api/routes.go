package main

import (
	"log/slog"
	"net/http"

	"bdf-gateway/internal/audit"
	"bdf-gateway/internal/auth"
	"bdf-gateway/internal/httpapi"
	"bdf-gateway/internal/throttle"
	"bdf-gateway/internal/trade"
	"bdf-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
)

const apiBasePath = "/bdf/api"

// routerDeps are the shared, immutable-after-init dependencies handed to every route.
type routerDeps struct {
	Log      *slog.Logger
	Gate     *auth.Gate
	Handlers httpapi.Handlers
	// Limiter may be nil; login throttling is then disabled.
	Limiter *throttle.Limiter
}

// newRouter wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers delegate to internal modules.
func newRouter(d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(d.Log))
	r.Use(audit.CaptureClientIP())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group(apiBasePath)

	// Token issuance is the entry point to authentication and is never gated.
	api.POST("/authorize", throttle.LoginByIP(d.Limiter), d.Handlers.Authorize)

	// Protected resources.
	api.POST("/message1", d.Gate.Protect(trade.HandleMessage1))

	protected := api.Group("")
	protected.Use(d.Gate.RequireToken())
	{
		protected.GET("/whoami", d.Handlers.WhoAmI)
	}

	return r
}
