// Package http contains the campaign management HTTP delivery
package http

import (
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/Conte777/botflow/internal/domain/campaign/dto"
	campaignerrors "github.com/Conte777/botflow/internal/domain/campaign/errors"
	"github.com/Conte777/botflow/internal/domain/campaign/usecase/buissines"
	pkgerrors "github.com/Conte777/botflow/pkg/errors"
	"github.com/Conte777/botflow/pkg/httputil"
)

// Handlers serves campaign management requests
type Handlers struct {
	uc     *buissines.UseCase
	mapper *pkgerrors.Mapper
	logger zerolog.Logger
}

// NewHandlers creates campaign HTTP handlers
func NewHandlers(uc *buissines.UseCase, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:     uc,
		mapper: pkgerrors.NewMapper(logger),
		logger: logger,
	}
}

// List handles GET /api/campaigns
func (h *Handlers) List(ctx *fasthttp.RequestCtx) {
	campaigns, err := h.uc.List(ctx)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	httputil.WriteResponse(ctx, campaigns)
}

// Create handles POST /api/campaigns
func (h *Handlers) Create(ctx *fasthttp.RequestCtx) {
	var req dto.CreateCampaignRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		httputil.WriteErrorResponse(ctx, "invalid request body", fasthttp.StatusBadRequest)
		return
	}

	c, err := h.uc.Create(ctx, req)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	httputil.WriteResponseWithStatus(ctx, c, fasthttp.StatusCreated)
}

// Get handles GET /api/campaigns/{id}
func (h *Handlers) Get(ctx *fasthttp.RequestCtx) {
	c, err := h.uc.Get(ctx, campaignID(ctx))
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	httputil.WriteResponse(ctx, c)
}

// Schedule handles POST /api/campaigns/{id}/schedule
func (h *Handlers) Schedule(ctx *fasthttp.RequestCtx) {
	var req dto.ScheduleCampaignRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		httputil.WriteErrorResponse(ctx, "invalid request body", fasthttp.StatusBadRequest)
		return
	}
	if req.ScheduledAt == nil {
		h.writeError(ctx, campaignerrors.ErrScheduledAtRequired)
		return
	}

	c, err := h.uc.Schedule(ctx, campaignID(ctx), *req.ScheduledAt)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	httputil.WriteResponse(ctx, c)
}

// Cancel handles POST /api/campaigns/{id}/cancel
func (h *Handlers) Cancel(ctx *fasthttp.RequestCtx) {
	c, err := h.uc.Cancel(ctx, campaignID(ctx))
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	httputil.WriteResponse(ctx, c)
}

// Send handles POST /api/campaigns/{id}/send
func (h *Handlers) Send(ctx *fasthttp.RequestCtx) {
	c, err := h.uc.SendNow(ctx, campaignID(ctx))
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	httputil.WriteResponseWithStatus(ctx, c, fasthttp.StatusAccepted)
}

// Messages handles GET /api/campaigns/{id}/messages
func (h *Handlers) Messages(ctx *fasthttp.RequestCtx) {
	msgs, err := h.uc.ListMessages(ctx, campaignID(ctx))
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	httputil.WriteResponse(ctx, msgs)
}

func campaignID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	return id
}

func (h *Handlers) writeError(ctx *fasthttp.RequestCtx, err error) {
	status, msg := h.mapper.MapErrorToHTTP(err)
	httputil.WriteErrorResponse(ctx, msg, status)
}
