package http

import (
	"github.com/fasthttp/router"
	"github.com/rs/zerolog"

	"github.com/Conte777/botflow/pkg/httputil"
)

// Router registers bot management routes
type Router struct {
	handlers *Handlers
	logger   zerolog.Logger
}

// NewRouter creates a new bot router
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// RegisterRoutes registers bot routes on the router
func (r *Router) RegisterRoutes(rt *router.Router) {
	api := httputil.NewMiddlewareGroup(rt.Group("/api"), httputil.Recover(r.logger), httputil.AccessLog(r.logger))

	api.GET("/bots", r.handlers.List)
	api.POST("/bots", r.handlers.Register)
	api.GET("/bots/{id}", r.handlers.Get)
	api.PUT("/bots/{id}", r.handlers.Update)
	api.DELETE("/bots/{id}", r.handlers.Delete)
	api.GET("/bots/{id}/subscribers", r.handlers.Subscribers)
	api.GET("/bots/{id}/auto-responders", r.handlers.AutoResponders)
	api.POST("/bots/{id}/auto-responders", r.handlers.CreateAutoResponder)
}
