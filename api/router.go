package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/articlereader/api/handler"
	"github.com/use-agent/articlereader/api/middleware"
	"github.com/use-agent/articlereader/cleaner"
	"github.com/use-agent/articlereader/config"
)

// Deps bundles the collaborators the routes are wired to.
type Deps struct {
	Primary  handler.PrimaryFetcher
	Fallback handler.FallbackFetcher
	Sessions handler.SessionCounter
	Cleaner  *cleaner.Cleaner
}

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → RequestID → Logger
//	Content: Auth (if enabled)
//
// The health check stays outside auth so monitoring probes always work.
func NewRouter(deps Deps, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(gin.Logger())

	r.GET("/health-check", handler.Health(deps.Sessions, startTime))

	protected := r.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.GET("/content", handler.Content(deps.Primary, deps.Fallback, deps.Cleaner, cfg.Reader))

	return r
}
