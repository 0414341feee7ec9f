package buissines

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/botflow/config"
	assistantuc "github.com/Conte777/botflow/internal/domain/assistant/usecase/buissines"
	"github.com/Conte777/botflow/internal/domain/inbound/entities"
	platformdeps "github.com/Conte777/botflow/internal/domain/platform/deps"
	platform "github.com/Conte777/botflow/internal/domain/platform/entities"
	"github.com/Conte777/botflow/internal/domain/platform/repository/memory"
	"github.com/Conte777/botflow/internal/infrastructure/metrics"
	"github.com/Conte777/botflow/internal/infrastructure/telegram"
)

// stalledGenerator never answers before its context ends
type stalledGenerator struct{}

func (stalledGenerator) Enabled() bool { return true }

func (stalledGenerator) Generate(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

// contextMessages rejects writes whose context is already done, like a database driver
type contextMessages struct {
	platformdeps.MessageRepository
}

func (m contextMessages) Create(ctx context.Context, msg *platform.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.MessageRepository.Create(ctx, msg)
}

// botAPI answers sendMessage and records every delivered text
type botAPI struct {
	mu    sync.Mutex
	texts []string
}

func (a *botAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseMultipartForm(1 << 20)

	a.mu.Lock()
	a.texts = append(a.texts, r.FormValue("text"))
	id := len(a.texts)
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprintf(w, `{"ok":true,"result":{"message_id":%d,"date":0,"chat":{"id":42,"type":"private"}}}`, id)
}

func (a *botAPI) delivered() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.texts...)
}

func TestConsume_SlowGenerationStillDeliversFallback(t *testing.T) {
	api := &botAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	m := metrics.NewMetrics(prometheus.NewRegistry())
	client := telegram.NewClient(&config.TelegramConfig{
		APIURL:         srv.URL,
		RequestTimeout: 5 * time.Second,
		BulkBatchSize:  30,
	}, m, zerolog.Nop())
	responder := assistantuc.NewUseCase(stalledGenerator{}, &config.AIConfig{}, m, zerolog.Nop())

	gw := memory.NewGateway()
	gw.Messages = contextMessages{gw.Messages}
	bot := &platform.Bot{UserID: "mock-user-id", Name: "Shop", Username: "shop_bot", Token: "123:token", IsActive: true}
	require.NoError(t, gw.Bots.Create(context.Background(), bot))

	uc := NewUseCase(gw, client, responder, nil, &config.InboundConfig{
		ContextWindow:  5,
		ProcessTimeout: 200 * time.Millisecond,
		ReplyTimeout:   5 * time.Second,
	}, m, zerolog.Nop())

	const text = "tell me about delivery"
	raw := []byte(`{"update_id":1,"message":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"},"from":{"id":42,"is_bot":false,"first_name":"Ann"},"text":"` + text + `"}}`)

	uc.Consume(context.Background(), bot.ID, raw)

	assert.Equal(t, []string{entities.WelcomeText, assistantuc.FallbackReply(text)}, api.delivered())

	msgs, err := gw.Messages.ListRecentByBot(context.Background(), bot.ID, 10)
	require.NoError(t, err)

	var outbound []platform.Message
	for _, msg := range msgs {
		if msg.Direction == platform.DirectionOutbound {
			outbound = append(outbound, msg)
		}
	}
	require.Len(t, outbound, 1)
	assert.Equal(t, platform.StatusSent, outbound[0].Status)
	assert.Equal(t, platform.OriginFallback, outbound[0].Origin())
	assert.Equal(t, assistantuc.FallbackReply(text), outbound[0].Content)
}
