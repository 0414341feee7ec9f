package http

import (
	"github.com/fasthttp/router"
	"github.com/rs/zerolog"

	"github.com/Conte777/botflow/pkg/httputil"
)

// Router registers assistant HTTP routes
type Router struct {
	handlers *Handlers
	logger   zerolog.Logger
}

// NewRouter creates a new assistant router
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// RegisterRoutes registers assistant routes on the router
func (r *Router) RegisterRoutes(rt *router.Router) {
	ai := httputil.NewMiddlewareGroup(rt.Group("/api/ai"), httputil.Recover(r.logger), httputil.AccessLog(r.logger))
	ai.POST("/generate-campaign", r.handlers.GenerateCampaign)
	ai.POST("/improve-template", r.handlers.ImproveTemplate)
}
