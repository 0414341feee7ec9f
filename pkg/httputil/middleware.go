package httputil

import (
	"time"

	"github.com/fasthttp/router"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// Middleware is a function that wraps a handler
type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// MiddlewareGroup wraps a router group with middleware support
type MiddlewareGroup struct {
	group      *router.Group
	middleware []Middleware
}

// NewMiddlewareGroup creates a new middleware group
func NewMiddlewareGroup(group *router.Group, m ...Middleware) *MiddlewareGroup {
	return &MiddlewareGroup{
		group:      group,
		middleware: append([]Middleware{}, m...),
	}
}

// Group creates a new sub-group with inherited middleware
func (g *MiddlewareGroup) Group(path string) *MiddlewareGroup {
	return &MiddlewareGroup{
		group:      g.group.Group(path),
		middleware: append([]Middleware{}, g.middleware...),
	}
}

// applyMiddleware applies all middleware to a handler in reverse order
func (g *MiddlewareGroup) applyMiddleware(handler fasthttp.RequestHandler) fasthttp.RequestHandler {
	for i := len(g.middleware) - 1; i >= 0; i-- {
		handler = g.middleware[i](handler)
	}
	return handler
}

// GET registers a GET handler
func (g *MiddlewareGroup) GET(path string, handler fasthttp.RequestHandler) {
	g.group.GET(path, g.applyMiddleware(handler))
}

// POST registers a POST handler
func (g *MiddlewareGroup) POST(path string, handler fasthttp.RequestHandler) {
	g.group.POST(path, g.applyMiddleware(handler))
}

// PUT registers a PUT handler
func (g *MiddlewareGroup) PUT(path string, handler fasthttp.RequestHandler) {
	g.group.PUT(path, g.applyMiddleware(handler))
}

// DELETE registers a DELETE handler
func (g *MiddlewareGroup) DELETE(path string, handler fasthttp.RequestHandler) {
	g.group.DELETE(path, g.applyMiddleware(handler))
}

// AccessLog logs every request with its status and latency
func AccessLog(logger zerolog.Logger) Middleware {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			next(ctx)
			logger.Debug().
				Str("method", string(ctx.Method())).
				Str("path", string(ctx.Path())).
				Int("status", ctx.Response.StatusCode()).
				Dur("latency", time.Since(start)).
				Msg("HTTP request")
		}
	}
}

// Recover turns a handler panic into a 500 response
func Recover(logger zerolog.Logger) Middleware {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error().
						Interface("panic", r).
						Str("path", string(ctx.Path())).
						Msg("Recovered from handler panic")
					WriteErrorResponse(ctx, "internal server error", fasthttp.StatusInternalServerError)
				}
			}()
			next(ctx)
		}
	}
}
