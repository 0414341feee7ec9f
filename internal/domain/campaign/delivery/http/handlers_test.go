package http

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/Conte777/botflow/config"
	"github.com/Conte777/botflow/internal/domain/campaign/scheduler"
	"github.com/Conte777/botflow/internal/domain/campaign/usecase/buissines"
	"github.com/Conte777/botflow/internal/domain/platform/entities"
	"github.com/Conte777/botflow/internal/domain/platform/repository/memory"
	"github.com/Conte777/botflow/internal/infrastructure/kafka"
	"github.com/Conte777/botflow/internal/infrastructure/metrics"
	"github.com/Conte777/botflow/internal/infrastructure/telegram"
)

type nopSender struct{}

func (nopSender) SendBulk(_ context.Context, _ string, ids []string, _ string, _ telegram.SendOptions) telegram.BulkResult {
	return telegram.BulkResult{Success: len(ids), Failures: map[string]error{}}
}

type campaignResponse struct {
	Success bool              `json:"success"`
	Data    entities.Campaign `json:"data"`
	Error   string            `json:"error"`
}

func newTestHandlers(t *testing.T) (*Handlers, string) {
	t.Helper()

	gw := memory.NewGateway()
	bot := &entities.Bot{UserID: "mock-user-id", Name: "Shop", Username: "shop_bot", Token: "t", IsActive: true}
	require.NoError(t, gw.Bots.Create(context.Background(), bot))

	uc := buissines.NewUseCase(
		gw,
		nopSender{},
		scheduler.New(),
		kafka.NopPublisher{},
		&config.ServiceConfig{DefaultUserID: "mock-user-id"},
		metrics.NewMetrics(prometheus.NewRegistry()),
		zerolog.Nop(),
	)
	t.Cleanup(func() { _ = uc.Stop(context.Background()) })

	return NewHandlers(uc, zerolog.Nop()), bot.ID
}

func do(handler fasthttp.RequestHandler, id, body string) (int, campaignResponse) {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.SetBodyString(body)
	if id != "" {
		ctx.SetUserValue("id", id)
	}

	handler(ctx)

	var resp campaignResponse
	_ = json.Unmarshal(ctx.Response.Body(), &resp)
	return ctx.Response.StatusCode(), resp
}

func TestHandlers_CreateScheduleCancel(t *testing.T) {
	h, botID := newTestHandlers(t)

	status, resp := do(h.Create, "", `{"botId":"`+botID+`","name":"Promo","message":"Hello all"}`)
	require.Equal(t, fasthttp.StatusCreated, status)
	require.True(t, resp.Success)
	assert.Equal(t, entities.CampaignDraft, resp.Data.Status)
	id := resp.Data.ID

	status, resp = do(h.Schedule, id, `{"scheduledAt":"2099-01-01T10:00:00Z"}`)
	require.Equal(t, fasthttp.StatusOK, status)
	assert.Equal(t, entities.CampaignScheduled, resp.Data.Status)

	status, resp = do(h.Cancel, id, ``)
	require.Equal(t, fasthttp.StatusOK, status)
	assert.Equal(t, entities.CampaignCancelled, resp.Data.Status)

	status, resp = do(h.Send, id, ``)
	assert.Equal(t, fasthttp.StatusConflict, status)
	assert.False(t, resp.Success)
}

func TestHandlers_Errors(t *testing.T) {
	h, botID := newTestHandlers(t)

	tests := []struct {
		name    string
		handler fasthttp.RequestHandler
		id      string
		body    string
		want    int
	}{
		{name: "invalid json", handler: h.Create, body: `{`, want: fasthttp.StatusBadRequest},
		{name: "missing message", handler: h.Create, body: `{"botId":"` + botID + `","name":"x"}`, want: fasthttp.StatusBadRequest},
		{name: "unknown bot", handler: h.Create, body: `{"botId":"nope","name":"x","message":"m"}`, want: fasthttp.StatusNotFound},
		{name: "schedule without time", handler: h.Schedule, id: "nope", body: `{}`, want: fasthttp.StatusBadRequest},
		{name: "cancel unknown", handler: h.Cancel, id: "nope", want: fasthttp.StatusNotFound},
		{name: "messages unknown", handler: h.Messages, id: "nope", want: fasthttp.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := do(tt.handler, tt.id, tt.body)
			assert.Equal(t, tt.want, status)
			assert.False(t, resp.Success)
		})
	}
}

func TestHandlers_Send(t *testing.T) {
	h, botID := newTestHandlers(t)

	_, resp := do(h.Create, "", `{"botId":"`+botID+`","name":"Now","message":"Hi"}`)
	require.True(t, resp.Success)

	status, resp := do(h.Send, resp.Data.ID, ``)
	require.Equal(t, fasthttp.StatusAccepted, status)
	assert.Equal(t, entities.CampaignSending, resp.Data.Status)
}
