package http

import (
	"github.com/fasthttp/router"
	"github.com/rs/zerolog"

	"github.com/Conte777/botflow/pkg/httputil"
)

// Router registers webhook routes
type Router struct {
	handler *WebhookHandler
	logger  zerolog.Logger
}

// NewRouter creates a new webhook router
func NewRouter(handler *WebhookHandler, logger zerolog.Logger) *Router {
	return &Router{
		handler: handler,
		logger:  logger,
	}
}

// RegisterRoutes registers webhook routes on the router
func (r *Router) RegisterRoutes(rt *router.Router) {
	webhook := httputil.NewMiddlewareGroup(rt.Group("/api/webhook"), httputil.Recover(r.logger), httputil.AccessLog(r.logger))
	webhook.POST("/{bot_id}", r.handler.Handle)
}
