package http

import (
	"github.com/fasthttp/router"
	"github.com/rs/zerolog"

	"github.com/Conte777/botflow/pkg/httputil"
)

// Router registers campaign routes
type Router struct {
	handlers *Handlers
	logger   zerolog.Logger
}

// NewRouter creates a new campaign router
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// RegisterRoutes registers campaign routes on the router
func (r *Router) RegisterRoutes(rt *router.Router) {
	api := httputil.NewMiddlewareGroup(rt.Group("/api"), httputil.Recover(r.logger), httputil.AccessLog(r.logger))

	api.GET("/campaigns", r.handlers.List)
	api.POST("/campaigns", r.handlers.Create)
	api.GET("/campaigns/{id}", r.handlers.Get)
	api.POST("/campaigns/{id}/schedule", r.handlers.Schedule)
	api.POST("/campaigns/{id}/cancel", r.handlers.Cancel)
	api.POST("/campaigns/{id}/send", r.handlers.Send)
	api.GET("/campaigns/{id}/messages", r.handlers.Messages)
}
