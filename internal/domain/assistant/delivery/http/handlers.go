// Package http contains the assistant HTTP delivery
package http

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/Conte777/botflow/internal/domain/assistant/dto"
	"github.com/Conte777/botflow/internal/domain/assistant/entities"
	assistanterrors "github.com/Conte777/botflow/internal/domain/assistant/errors"
	"github.com/Conte777/botflow/internal/domain/assistant/usecase/buissines"
	pkgerrors "github.com/Conte777/botflow/pkg/errors"
	"github.com/Conte777/botflow/pkg/httputil"
)

// Handlers serves copy generation requests
type Handlers struct {
	uc     *buissines.UseCase
	mapper *pkgerrors.Mapper
	logger zerolog.Logger
}

// NewHandlers creates assistant HTTP handlers
func NewHandlers(uc *buissines.UseCase, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:     uc,
		mapper: pkgerrors.NewMapper(logger),
		logger: logger,
	}
}

// GenerateCampaign handles POST /api/ai/generate-campaign
func (h *Handlers) GenerateCampaign(ctx *fasthttp.RequestCtx) {
	var req dto.GenerateCampaignRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		httputil.WriteErrorResponse(ctx, "invalid request body", fasthttp.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Prompt) == "" {
		h.writeError(ctx, assistanterrors.ErrPromptRequired)
		return
	}

	tone := entities.Tone(strings.ToLower(strings.TrimSpace(req.Tone)))
	if tone == "" {
		tone = entities.DefaultTone
	}
	if !tone.Valid() {
		h.writeError(ctx, assistanterrors.ErrInvalidTone)
		return
	}

	content := h.uc.GenerateCampaignCopy(ctx, req.Prompt, tone)
	httputil.WriteResponse(ctx, dto.ContentResponse{Content: content})
}

// ImproveTemplate handles POST /api/ai/improve-template
func (h *Handlers) ImproveTemplate(ctx *fasthttp.RequestCtx) {
	var req dto.ImproveTemplateRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		httputil.WriteErrorResponse(ctx, "invalid request body", fasthttp.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		h.writeError(ctx, assistanterrors.ErrContentRequired)
		return
	}

	content := h.uc.ImproveCopy(ctx, req.Content, req.Goals)
	httputil.WriteResponse(ctx, dto.ContentResponse{Content: content})
}

func (h *Handlers) writeError(ctx *fasthttp.RequestCtx, err error) {
	status, msg := h.mapper.MapErrorToHTTP(err)
	httputil.WriteErrorResponse(ctx, msg, status)
}
