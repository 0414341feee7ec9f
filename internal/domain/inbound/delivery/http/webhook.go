// Package http contains the webhook delivery
package http

import (
	"crypto/subtle"
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/Conte777/botflow/internal/domain/inbound/deps"
	inbounderrors "github.com/Conte777/botflow/internal/domain/inbound/errors"
	pkgerrors "github.com/Conte777/botflow/pkg/errors"
	"github.com/Conte777/botflow/pkg/httputil"
)

// SecretTokenHeader carries the secret registered together with the webhook
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookHandler accepts provider updates and acknowledges them before processing
type WebhookHandler struct {
	dispatcher deps.Dispatcher
	secret     []byte
	mapper     *pkgerrors.Mapper
	logger     zerolog.Logger
}

// NewWebhookHandler creates a webhook handler; an empty secret disables the header check
func NewWebhookHandler(dispatcher deps.Dispatcher, secret string, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		dispatcher: dispatcher,
		secret:     []byte(secret),
		mapper:     pkgerrors.NewMapper(logger),
		logger:     logger,
	}
}

// Handle handles POST /api/webhook/{bot_id}
func (h *WebhookHandler) Handle(ctx *fasthttp.RequestCtx) {
	botID, _ := ctx.UserValue("bot_id").(string)
	if botID == "" {
		h.writeError(ctx, inbounderrors.ErrMissingBotID)
		return
	}

	if len(h.secret) > 0 {
		got := ctx.Request.Header.Peek(SecretTokenHeader)
		if subtle.ConstantTimeCompare(got, h.secret) != 1 {
			h.logger.Warn().Str("bot_id", botID).Msg("Webhook secret token mismatch")
			h.writeError(ctx, inbounderrors.ErrInvalidSecretToken)
			return
		}
	}

	body := ctx.PostBody()
	if !json.Valid(body) {
		h.writeError(ctx, inbounderrors.ErrInvalidUpdate)
		return
	}

	// the request buffer is reused once the handler returns
	raw := append([]byte(nil), body...)
	if err := h.dispatcher.Dispatch(ctx, botID, raw); err != nil {
		h.logger.Error().Err(err).Str("bot_id", botID).Msg("Failed to dispatch update")
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("text/plain; charset=utf-8")
	ctx.SetBodyString("OK")
}

func (h *WebhookHandler) writeError(ctx *fasthttp.RequestCtx, err error) {
	status, msg := h.mapper.MapErrorToHTTP(err)
	httputil.WriteErrorResponse(ctx, msg, status)
}
