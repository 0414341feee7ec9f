package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/botflow/internal/domain/inbound/dto"
	"github.com/Conte777/botflow/internal/infrastructure/kafka"
)

type fakePublisher struct {
	topic string
	key   string
	event interface{}
	err   error
}

func (f *fakePublisher) Publish(_ context.Context, topic, key string, event interface{}) error {
	f.topic, f.key, f.event = topic, key, event
	return f.err
}

func TestQueueDispatcher_Dispatch(t *testing.T) {
	p := &fakePublisher{}
	d := NewQueueDispatcher(p, zerolog.Nop())

	require.NoError(t, d.Dispatch(context.Background(), "bot-1", []byte(`{"update_id":1}`)))

	assert.Equal(t, kafka.TopicBotUpdates, p.topic)
	assert.Equal(t, "bot-1", p.key)

	env, ok := p.event.(dto.UpdateEnvelope)
	require.True(t, ok)
	assert.Equal(t, "bot-1", env.BotID)
	assert.Equal(t, json.RawMessage(`{"update_id":1}`), env.Update)
	assert.False(t, env.ReceivedAt.IsZero())
}

func TestQueueDispatcher_PublishFailure(t *testing.T) {
	p := &fakePublisher{err: errors.New("broker down")}
	d := NewQueueDispatcher(p, zerolog.Nop())

	err := d.Dispatch(context.Background(), "bot-1", []byte(`{}`))
	assert.ErrorIs(t, err, p.err)
}
