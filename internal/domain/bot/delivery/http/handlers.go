// Package http contains the bot management HTTP delivery
package http

import (
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/Conte777/botflow/internal/domain/bot/dto"
	"github.com/Conte777/botflow/internal/domain/bot/usecase/buissines"
	pkgerrors "github.com/Conte777/botflow/pkg/errors"
	"github.com/Conte777/botflow/pkg/httputil"
)

// Handlers serves bot management requests
type Handlers struct {
	uc     *buissines.UseCase
	mapper *pkgerrors.Mapper
	logger zerolog.Logger
}

// NewHandlers creates bot HTTP handlers
func NewHandlers(uc *buissines.UseCase, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:     uc,
		mapper: pkgerrors.NewMapper(logger),
		logger: logger,
	}
}

// List handles GET /api/bots
func (h *Handlers) List(ctx *fasthttp.RequestCtx) {
	bots, err := h.uc.List(ctx)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	httputil.WriteResponse(ctx, bots)
}

// Register handles POST /api/bots
func (h *Handlers) Register(ctx *fasthttp.RequestCtx) {
	var req dto.RegisterBotRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		httputil.WriteErrorResponse(ctx, "invalid request body", fasthttp.StatusBadRequest)
		return
	}

	bot, err := h.uc.Register(ctx, req)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	httputil.WriteResponseWithStatus(ctx, bot, fasthttp.StatusCreated)
}

// Get handles GET /api/bots/{id}
func (h *Handlers) Get(ctx *fasthttp.RequestCtx) {
	bot, err := h.uc.Get(ctx, botID(ctx))
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	httputil.WriteResponse(ctx, bot)
}

// Update handles PUT /api/bots/{id}
func (h *Handlers) Update(ctx *fasthttp.RequestCtx) {
	var req dto.UpdateBotRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		httputil.WriteErrorResponse(ctx, "invalid request body", fasthttp.StatusBadRequest)
		return
	}

	bot, err := h.uc.Update(ctx, botID(ctx), req)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	httputil.WriteResponse(ctx, bot)
}

// Delete handles DELETE /api/bots/{id}
func (h *Handlers) Delete(ctx *fasthttp.RequestCtx) {
	if err := h.uc.Delete(ctx, botID(ctx)); err != nil {
		h.writeError(ctx, err)
		return
	}
	httputil.WriteResponse(ctx, nil)
}

// Subscribers handles GET /api/bots/{id}/subscribers
func (h *Handlers) Subscribers(ctx *fasthttp.RequestCtx) {
	subs, err := h.uc.ListSubscribers(ctx, botID(ctx))
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	httputil.WriteResponse(ctx, subs)
}

// AutoResponders handles GET /api/bots/{id}/auto-responders
func (h *Handlers) AutoResponders(ctx *fasthttp.RequestCtx) {
	rules, err := h.uc.ListAutoResponders(ctx, botID(ctx))
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	httputil.WriteResponse(ctx, rules)
}

// CreateAutoResponder handles POST /api/bots/{id}/auto-responders
func (h *Handlers) CreateAutoResponder(ctx *fasthttp.RequestCtx) {
	var req dto.CreateAutoResponderRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		httputil.WriteErrorResponse(ctx, "invalid request body", fasthttp.StatusBadRequest)
		return
	}

	rule, err := h.uc.CreateAutoResponder(ctx, botID(ctx), req)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	httputil.WriteResponseWithStatus(ctx, rule, fasthttp.StatusCreated)
}

func botID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	return id
}

func (h *Handlers) writeError(ctx *fasthttp.RequestCtx, err error) {
	status, msg := h.mapper.MapErrorToHTTP(err)
	httputil.WriteErrorResponse(ctx, msg, status)
}
