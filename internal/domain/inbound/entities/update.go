// Package entities contains inbound update types
package entities

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot/models"

	platform "github.com/Conte777/botflow/internal/domain/platform/entities"
)

// UpdateKind is the shape of an incoming update
type UpdateKind string

const (
	KindMessage       UpdateKind = "message"
	KindCallbackQuery UpdateKind = "callback_query"
	KindInlineQuery   UpdateKind = "inline_query"
	KindUnsupported   UpdateKind = "unsupported"
)

// Sender is the provider user behind an update
type Sender struct {
	ID           int64
	IsBot        bool
	FirstName    string
	LastName     string
	Username     string
	LanguageCode string
}

// ExternalID returns the provider user id as stored on subscribers
func (s Sender) ExternalID() string {
	return strconv.FormatInt(s.ID, 10)
}

// IncomingMessage is a chat message sent to a bot
type IncomingMessage struct {
	MessageID   int
	ChatID      int64
	Sender      Sender
	Text        string
	ContentType string
}

// HasText reports whether the message carries non-blank text
func (m *IncomingMessage) HasText() bool {
	return strings.TrimSpace(m.Text) != ""
}

// LogContent returns the content stored in the message log
func (m *IncomingMessage) LogContent() string {
	if m.Text == "" {
		return platform.NonTextPlaceholder
	}
	return m.Text
}

// CallbackQuery is an inline keyboard button press
type CallbackQuery struct {
	ID     string
	Sender Sender
	Data   string
}

// InlineQuery is an inline mode query
type InlineQuery struct {
	ID     string
	Sender Sender
	Query  string
}

// Update is a tagged union: exactly one payload matching Kind is set
type Update struct {
	ID       int64
	Kind     UpdateKind
	Message  *IncomingMessage
	Callback *CallbackQuery
	Inline   *InlineQuery
}

// ParseUpdate decodes a raw webhook body
func ParseUpdate(raw []byte) (Update, error) {
	var u models.Update
	if err := json.Unmarshal(raw, &u); err != nil {
		return Update{}, fmt.Errorf("decode update: %w", err)
	}
	return FromModel(&u), nil
}

// FromModel converts a Bot API update into an Update
func FromModel(u *models.Update) Update {
	upd := Update{ID: u.ID, Kind: KindUnsupported}

	switch {
	case u.Message != nil && u.Message.From != nil:
		upd.Kind = KindMessage
		upd.Message = &IncomingMessage{
			MessageID:   u.Message.ID,
			ChatID:      u.Message.Chat.ID,
			Sender:      senderOf(*u.Message.From),
			Text:        u.Message.Text,
			ContentType: contentType(u.Message),
		}
	case u.CallbackQuery != nil:
		upd.Kind = KindCallbackQuery
		upd.Callback = &CallbackQuery{
			ID:     u.CallbackQuery.ID,
			Sender: senderOf(u.CallbackQuery.From),
			Data:   u.CallbackQuery.Data,
		}
	case u.InlineQuery != nil:
		upd.Kind = KindInlineQuery
		upd.Inline = &InlineQuery{
			ID:    u.InlineQuery.ID,
			Query: u.InlineQuery.Query,
		}
		if u.InlineQuery.From != nil {
			upd.Inline.Sender = senderOf(*u.InlineQuery.From)
		}
	}

	return upd
}

func senderOf(u models.User) Sender {
	return Sender{
		ID:           u.ID,
		IsBot:        u.IsBot,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Username:     u.Username,
		LanguageCode: u.LanguageCode,
	}
}

func contentType(m *models.Message) string {
	switch {
	case m.Text != "":
		return platform.MessageTypeText
	case len(m.Photo) > 0:
		return platform.MessageTypePhoto
	case m.Video != nil:
		return platform.MessageTypeVideo
	case m.Document != nil:
		return platform.MessageTypeDocument
	case m.Audio != nil:
		return platform.MessageTypeAudio
	case m.Voice != nil:
		return platform.MessageTypeVoice
	case m.Sticker != nil:
		return platform.MessageTypeSticker
	default:
		return platform.MessageTypeOther
	}
}
