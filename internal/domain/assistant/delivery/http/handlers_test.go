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
	"github.com/Conte777/botflow/internal/domain/assistant/entities"
	"github.com/Conte777/botflow/internal/domain/assistant/usecase/buissines"
	"github.com/Conte777/botflow/internal/infrastructure/metrics"
)

type disabledGenerator struct{}

func (disabledGenerator) Enabled() bool { return false }
func (disabledGenerator) Generate(context.Context, string) (string, error) {
	return "", nil
}

type response struct {
	Success bool `json:"success"`
	Data    struct {
		Content string `json:"content"`
	} `json:"data"`
	Error string `json:"error"`
}

func newHandlers() *Handlers {
	uc := buissines.NewUseCase(disabledGenerator{}, &config.AIConfig{}, metrics.NewMetrics(prometheus.NewRegistry()), zerolog.Nop())
	return NewHandlers(uc, zerolog.Nop())
}

func call(handler fasthttp.RequestHandler, body string) (int, response) {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.SetBodyString(body)

	handler(ctx)

	var resp response
	_ = json.Unmarshal(ctx.Response.Body(), &resp)
	return ctx.Response.StatusCode(), resp
}

func TestHandlers_GenerateCampaign(t *testing.T) {
	h := newHandlers()

	status, resp := call(h.GenerateCampaign, `{"prompt":"summer sale","tone":"promotional"}`)
	require.Equal(t, fasthttp.StatusOK, status)
	assert.True(t, resp.Success)
	assert.Equal(t, entities.CampaignCopyUnconfigured, resp.Data.Content)
}

func TestHandlers_GenerateCampaignValidation(t *testing.T) {
	h := newHandlers()

	tests := []struct {
		name string
		body string
	}{
		{"missing prompt", `{"tone":"friendly"}`},
		{"blank prompt", `{"prompt":"  "}`},
		{"unknown tone", `{"prompt":"sale","tone":"angry"}`},
		{"bad json", `{"prompt":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := call(h.GenerateCampaign, tt.body)
			assert.Equal(t, fasthttp.StatusBadRequest, status)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestHandlers_ImproveTemplate(t *testing.T) {
	h := newHandlers()

	status, resp := call(h.ImproveTemplate, `{"content":"Buy now","goals":["urgent"]}`)
	require.Equal(t, fasthttp.StatusOK, status)
	assert.Equal(t, "Buy now", resp.Data.Content)

	status, _ = call(h.ImproveTemplate, `{"goals":["urgent"]}`)
	assert.Equal(t, fasthttp.StatusBadRequest, status)
}
