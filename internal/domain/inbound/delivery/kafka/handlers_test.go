package kafka

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	inbounderrors "github.com/Conte777/botflow/internal/domain/inbound/errors"
)

type recordingConsumer struct {
	botID string
	raw   string
}

func (r *recordingConsumer) Consume(_ context.Context, botID string, raw []byte) {
	r.botID = botID
	r.raw = string(raw)
}

func TestHandleUpdateEnvelope(t *testing.T) {
	c := &recordingConsumer{}
	h := NewHandlers(c, zerolog.Nop())

	err := h.HandleUpdateEnvelope(context.Background(), []byte(`{"bot_id":"bot-1","update":{"update_id":5},"received_at":"2024-01-01T00:00:00Z"}`))

	assert.NoError(t, err)
	assert.Equal(t, "bot-1", c.botID)
	assert.JSONEq(t, `{"update_id":5}`, c.raw)
}

func TestHandleUpdateEnvelope_Invalid(t *testing.T) {
	c := &recordingConsumer{}
	h := NewHandlers(c, zerolog.Nop())

	assert.Error(t, h.HandleUpdateEnvelope(context.Background(), []byte(`{`)))
	assert.ErrorIs(t, h.HandleUpdateEnvelope(context.Background(), []byte(`{"update":{}}`)), inbounderrors.ErrMissingBotID)
	assert.Empty(t, c.botID)
}
