package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platform "github.com/Conte777/botflow/internal/domain/platform/entities"
)

func TestParseUpdate_TextMessage(t *testing.T) {
	raw := []byte(`{
		"update_id": 10,
		"message": {
			"message_id": 3,
			"date": 1700000000,
			"chat": {"id": 42, "type": "private"},
			"from": {"id": 42, "is_bot": false, "first_name": "Ann", "last_name": "Lee", "username": "ann", "language_code": "en"},
			"text": "Hello"
		}
	}`)

	upd, err := ParseUpdate(raw)
	require.NoError(t, err)

	assert.Equal(t, int64(10), upd.ID)
	assert.Equal(t, KindMessage, upd.Kind)
	require.NotNil(t, upd.Message)
	assert.Nil(t, upd.Callback)
	assert.Nil(t, upd.Inline)

	assert.Equal(t, 3, upd.Message.MessageID)
	assert.Equal(t, int64(42), upd.Message.ChatID)
	assert.Equal(t, "Hello", upd.Message.Text)
	assert.Equal(t, platform.MessageTypeText, upd.Message.ContentType)
	assert.Equal(t, Sender{ID: 42, FirstName: "Ann", LastName: "Lee", Username: "ann", LanguageCode: "en"}, upd.Message.Sender)
	assert.Equal(t, "42", upd.Message.Sender.ExternalID())
	assert.True(t, upd.Message.HasText())
	assert.Equal(t, "Hello", upd.Message.LogContent())
}

func TestParseUpdate_NonTextMessage(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"photo", `"photo":[{"file_id":"a","file_unique_id":"b","width":1,"height":1}]`, platform.MessageTypePhoto},
		{"sticker", `"sticker":{"file_id":"a","file_unique_id":"b","type":"regular","width":1,"height":1,"is_animated":false,"is_video":false}`, platform.MessageTypeSticker},
		{"voice", `"voice":{"file_id":"a","file_unique_id":"b","duration":1}`, platform.MessageTypeVoice},
		{"location", `"location":{"latitude":1,"longitude":2}`, platform.MessageTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := []byte(`{"update_id":1,"message":{"message_id":1,"date":0,"chat":{"id":7,"type":"private"},"from":{"id":7,"is_bot":false,"first_name":"Bo"},` + tt.payload + `}}`)

			upd, err := ParseUpdate(raw)
			require.NoError(t, err)
			require.Equal(t, KindMessage, upd.Kind)
			assert.Equal(t, tt.want, upd.Message.ContentType)
			assert.False(t, upd.Message.HasText())
			assert.Equal(t, platform.NonTextPlaceholder, upd.Message.LogContent())
		})
	}
}

func TestParseUpdate_CallbackQuery(t *testing.T) {
	raw := []byte(`{"update_id":2,"callback_query":{"id":"cb1","from":{"id":5,"is_bot":false,"first_name":"Cy"},"chat_instance":"x","data":"buy"}}`)

	upd, err := ParseUpdate(raw)
	require.NoError(t, err)

	assert.Equal(t, KindCallbackQuery, upd.Kind)
	require.NotNil(t, upd.Callback)
	assert.Nil(t, upd.Message)
	assert.Equal(t, "cb1", upd.Callback.ID)
	assert.Equal(t, "buy", upd.Callback.Data)
	assert.Equal(t, int64(5), upd.Callback.Sender.ID)
}

func TestParseUpdate_InlineQuery(t *testing.T) {
	raw := []byte(`{"update_id":3,"inline_query":{"id":"iq1","from":{"id":6,"is_bot":false,"first_name":"Di"},"query":"shoes","offset":""}}`)

	upd, err := ParseUpdate(raw)
	require.NoError(t, err)

	assert.Equal(t, KindInlineQuery, upd.Kind)
	require.NotNil(t, upd.Inline)
	assert.Equal(t, "shoes", upd.Inline.Query)
	assert.Equal(t, int64(6), upd.Inline.Sender.ID)
}

func TestParseUpdate_InlineQueryWithoutSender(t *testing.T) {
	raw := []byte(`{"update_id":4,"inline_query":{"id":"iq2","query":"hats","offset":""}}`)

	upd, err := ParseUpdate(raw)
	require.NoError(t, err)

	assert.Equal(t, KindInlineQuery, upd.Kind)
	require.NotNil(t, upd.Inline)
	assert.Equal(t, "hats", upd.Inline.Query)
	assert.Zero(t, upd.Inline.Sender)
}

func TestParseUpdate_MessageWithoutSender(t *testing.T) {
	raw := []byte(`{"update_id":5,"message":{"message_id":9,"date":0,"chat":{"id":-100,"type":"channel"},"text":"post"}}`)

	upd, err := ParseUpdate(raw)
	require.NoError(t, err)

	assert.Equal(t, KindUnsupported, upd.Kind)
	assert.Nil(t, upd.Message)
}

func TestParseUpdate_Unsupported(t *testing.T) {
	tests := map[string]string{
		"edited message": `{"update_id":4,"edited_message":{"message_id":1,"date":0,"chat":{"id":1,"type":"private"},"text":"x"}}`,
		"channel post":   `{"update_id":5,"message":{"message_id":1,"date":0,"chat":{"id":-100,"type":"channel"},"text":"x"}}`,
		"empty":          `{"update_id":6}`,
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			upd, err := ParseUpdate([]byte(raw))
			require.NoError(t, err)
			assert.Equal(t, KindUnsupported, upd.Kind)
			assert.Nil(t, upd.Message)
		})
	}
}

func TestParseUpdate_Invalid(t *testing.T) {
	_, err := ParseUpdate([]byte(`{"update_id":`))
	assert.Error(t, err)
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text string
		want Command
	}{
		{"stop", CommandStop},
		{"  STOP  ", CommandStop},
		{"Unsubscribe", CommandStop},
		{"start", CommandStart},
		{"SUBSCRIBE", CommandStart},
		{"please stop", CommandNone},
		{"/start", CommandNone},
		{"", CommandNone},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCommand(tt.text))
		})
	}
}
